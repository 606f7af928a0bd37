// Package page tracks which top-level page is showing.
package page

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Page is one of the three top-level views.
type Page string

const (
	Home    Page = "home"
	Blog    Page = "blog"
	Contact Page = "contact"
)

// ErrUnknownPage is returned for values outside {home, blog, contact}.
var ErrUnknownPage = errors.New("unknown page")

// All lists the pages in navigation order.
var All = []Page{Home, Blog, Contact}

// Valid reports whether p is one of the known pages.
func (p Page) Valid() bool {
	switch p {
	case Home, Blog, Contact:
		return true
	}
	return false
}

// Parse maps a navigation action name to a page.
func Parse(s string) (Page, error) {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
	}
	return p, nil
}

// Selector holds the current page. The zero value is not usable; call NewSelector.
type Selector struct {
	mu      sync.RWMutex
	current Page
}

// NewSelector returns a selector starting on Home.
func NewSelector() *Selector {
	return &Selector{current: Home}
}

// Set switches to p unconditionally.
func (s *Selector) Set(p Page) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPage, p)
	}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return nil
}

// Current returns the page being shown.
func (s *Selector) Current() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
