// Package posts reads the blog index and individual post bodies from a
// content source: a directory of flat files, an in-memory set, or a SQLite
// file.
package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrIndexUnavailable is returned when the post index cannot be read or decoded.
	ErrIndexUnavailable = errors.New("post index unavailable")
	// ErrBodyUnavailable is returned when a post body cannot be read.
	ErrBodyUnavailable = errors.New("post body unavailable")
)

// ID identifies a post. Index files may spell it as a number or a string.
type ID string

// UnmarshalJSON accepts both `"slug"` and `42`.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("post id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("post id must be a scalar, got %v at line %d", value.Tag, value.Line)
	}
	*id = ID(value.Value)
	return nil
}

// Valid reports whether id can address a body resource: non-empty and a
// single path element.
func (id ID) Valid() bool {
	s := string(id)
	if strings.TrimSpace(s) == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}

// Post is one blog entry. Content stays nil until the body has been loaded;
// once set it holds the whole body.
type Post struct {
	ID      ID      `json:"id" yaml:"id"`
	Title   string  `json:"title" yaml:"title"`
	Date    string  `json:"date" yaml:"date"`
	Summary string  `json:"summary" yaml:"summary"`
	Content *string `json:"-" yaml:"-"`
}

// Loaded reports whether the post body has been attached.
func (p Post) Loaded() bool {
	return p.Content != nil
}

// Body returns the loaded content, or "" when absent.
func (p Post) Body() string {
	if p.Content == nil {
		return ""
	}
	return *p.Content
}

// Source is the accessor the blog view reads through.
type Source interface {
	// LoadIndex returns every post in index order with no content attached.
	LoadIndex(ctx context.Context) ([]Post, error)
	// LoadBody returns the full text of one post.
	LoadBody(ctx context.Context, id ID) (string, error)
}

// validateIndex rejects empty and duplicate ids and strips any content so
// callers always receive bodiless entries.
func validateIndex(list []Post) ([]Post, error) {
	seen := make(map[ID]struct{}, len(list))
	out := make([]Post, 0, len(list))
	for i, p := range list {
		if strings.TrimSpace(string(p.ID)) == "" {
			return nil, fmt.Errorf("entry %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		p.Content = nil
		out = append(out, p)
	}
	return out, nil
}

func indexError(err error) error {
	return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
}

func bodyError(id ID, err error) error {
	return fmt.Errorf("%w: post %q: %w", ErrBodyUnavailable, id, err)
}
