// Package controller owns the state of one visitor session: the current
// page and the blog view model, and the transitions between them.
package controller

import (
	"sync"
	"time"

	"github.com/vengy/folio/blog"
	"github.com/vengy/folio/logger"
	"github.com/vengy/folio/page"
	"github.com/vengy/folio/posts"
	"github.com/vengy/folio/views"
)

// Controller is safe for concurrent use. Page transitions are serialized so
// mount and unmount always pair up.
type Controller struct {
	mu    sync.Mutex
	pages *page.Selector
	blog  *blog.ViewModel
	now   func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source used for render timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller on the home page. The blog view is not mounted
// until the blog page is selected.
func New(src posts.Source, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		pages: page.NewSelector(),
		blog:  blog.New(src, log),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Navigate switches to p. Entering the blog mounts it and returns the
// index load task; leaving it unmounts. Selecting the current page again
// changes nothing and returns nil.
func (c *Controller) Navigate(p page.Page) (*blog.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.pages.Current()
	if err := c.pages.Set(p); err != nil {
		return nil, err
	}
	if prev == p {
		return nil, nil
	}
	if prev == page.Blog {
		c.blog.Unmount()
	}
	if p == page.Blog {
		return c.blog.Mount(), nil
	}
	return nil, nil
}

// Remount reloads the blog index if the blog page is showing.
func (c *Controller) Remount() *blog.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pages.Current() != page.Blog {
		return nil
	}
	return c.blog.Mount()
}

// TogglePost expands or collapses a post on the blog page.
func (c *Controller) TogglePost(id posts.ID) (*blog.Task, error) {
	return c.blog.Toggle(id)
}

// Page returns the current page.
func (c *Controller) Page() page.Page {
	return c.pages.Current()
}

// View snapshots the state for rendering. Page and blog state come from
// the same transition.
func (c *Controller) View() views.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return views.Model{
		Page: c.pages.Current(),
		Blog: c.blog.Snapshot(),
		Now:  c.now(),
	}
}
