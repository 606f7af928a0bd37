package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIndexPath = "posts.json"
	DefaultBodyDir   = "posts"
	bodyExt          = ".md"
)

// FileSource reads posts from flat files: an index (JSON or YAML) plus one
// Markdown file per post under BodyDir.
type FileSource struct {
	fsys      fs.FS
	IndexPath string
	BodyDir   string
}

// NewFileSource creates a FileSource over fsys using the default layout.
func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{
		fsys:      fsys,
		IndexPath: DefaultIndexPath,
		BodyDir:   DefaultBodyDir,
	}
}

// NewDirSource creates a FileSource rooted at a directory on disk.
func NewDirSource(dir string) *FileSource {
	return NewFileSource(os.DirFS(dir))
}

// LoadIndex decodes the index file. Files ending in .yaml or .yml are read
// as YAML, anything else as JSON.
func (s *FileSource) LoadIndex(ctx context.Context) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, indexError(err)
	}
	data, err := fs.ReadFile(s.fsys, s.IndexPath)
	if err != nil {
		return nil, indexError(err)
	}
	var list []Post
	switch strings.ToLower(path.Ext(s.IndexPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &list)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&list)
		if err == nil && dec.More() {
			err = errors.New("trailing data after index")
		}
	}
	if err == nil && list == nil {
		err = errors.New("index is not a list")
	}
	if err != nil {
		return nil, indexError(err)
	}
	list, err = validateIndex(list)
	if err != nil {
		return nil, indexError(err)
	}
	return list, nil
}

// LoadBody reads BodyDir/{id}.md. A leading front matter block is dropped.
func (s *FileSource) LoadBody(ctx context.Context, id ID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", bodyError(id, err)
	}
	if !id.Valid() {
		return "", bodyError(id, errors.New("invalid id"))
	}
	data, err := fs.ReadFile(s.fsys, path.Join(s.BodyDir, string(id)+bodyExt))
	if err != nil {
		return "", bodyError(id, err)
	}
	return stripFrontMatter(data), nil
}

// stripFrontMatter returns the body with any YAML/TOML front matter removed.
// Text that does not start with a delimiter is returned unchanged.
func stripFrontMatter(data []byte) string {
	var meta map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return string(data)
	}
	return string(rest)
}
