package posts

import (
	"context"
	"errors"
)

// StaticSource serves a fixed set of posts from memory.
type StaticSource struct {
	index  []Post
	bodies map[ID]string
}

// NewStaticSource builds a StaticSource from posts whose Content, when set,
// becomes the body served by LoadBody. The index itself never carries content.
func NewStaticSource(list []Post) *StaticSource {
	s := &StaticSource{bodies: make(map[ID]string, len(list))}
	for _, p := range list {
		if p.Content != nil {
			s.bodies[p.ID] = *p.Content
		}
		p.Content = nil
		s.index = append(s.index, p)
	}
	return s
}

// DemoSource returns the two posts the site shipped with.
func DemoSource() *StaticSource {
	first := "This is where I'll be sharing my thoughts and experiences about trading tools and working with Claude."
	second := "Today I want to talk about the different ways we can use Claude to help build and analyze trading tools..."
	return NewStaticSource([]Post{
		{ID: "1", Title: "Starting My Blog", Date: "2024-12-28", Summary: "First post about trading tools", Content: &first},
		{ID: "2", Title: "Building with Claude", Date: "2024-12-27", Summary: "Exploring what we can create with AI assistance", Content: &second},
	})
}

// LoadIndex returns a copy of the static index.
func (s *StaticSource) LoadIndex(ctx context.Context) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, indexError(err)
	}
	list, err := validateIndex(s.index)
	if err != nil {
		return nil, indexError(err)
	}
	return list, nil
}

// LoadBody returns the in-memory body for id.
func (s *StaticSource) LoadBody(ctx context.Context, id ID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", bodyError(id, err)
	}
	body, ok := s.bodies[id]
	if !ok {
		return "", bodyError(id, errors.New("no body"))
	}
	return body, nil
}
