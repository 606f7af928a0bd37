package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// postMeta is the front matter a body file may carry. Dates and ids are
// decoded loosely since YAML turns 2024-01-02 into a timestamp and 7 into
// an int.
type postMeta struct {
	ID      any    `yaml:"id" toml:"id"`
	Title   string `yaml:"title" toml:"title"`
	Date    any    `yaml:"date" toml:"date"`
	Summary string `yaml:"summary" toml:"summary"`
}

// BuildIndex reads the front matter of every Markdown file in bodyDir and
// returns the index, newest date first. A file without an id in its front
// matter uses its file name.
func BuildIndex(fsys fs.FS, bodyDir string) ([]Post, error) {
	entries, err := fs.ReadDir(fsys, bodyDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", bodyDir, err)
	}

	var list []Post
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != bodyExt {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(bodyDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var meta postMeta
		if _, err := frontmatter.Parse(bytes.NewReader(data), &meta); err != nil {
			return nil, fmt.Errorf("parse front matter of %s: %w", e.Name(), err)
		}
		p := Post{
			ID:      ID(scalarString(meta.ID)),
			Title:   meta.Title,
			Date:    scalarString(meta.Date),
			Summary: meta.Summary,
		}
		if p.ID == "" {
			p.ID = ID(strings.TrimSuffix(e.Name(), bodyExt))
		}
		if p.Title == "" {
			p.Title = string(p.ID)
		}
		list = append(list, p)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].ID < list[j].ID
	})
	return validateIndex(list)
}

// WriteIndex writes list as an indented JSON index file.
func WriteIndex(file string, list []Post) error {
	if list == nil {
		list = []Post{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(file, append(data, '\n'), 0o644)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}
