package folio

import (
	"fmt"
	"io"

	"github.com/vengy/folio/posts"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenSource builds the post source named by cfg.Source. The returned
// closer releases any database handle.
func OpenSource(cfg SiteConfig) (posts.Source, io.Closer, error) {
	cfg.setDefaults()
	switch cfg.Source {
	case SourceFiles:
		src := posts.NewDirSource(cfg.ContentDir)
		src.IndexPath = cfg.IndexFile
		return src, nopCloser{}, nil
	case SourceSQLite:
		src, err := posts.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite source: %w", err)
		}
		return src, src, nil
	case SourceDemo:
		return posts.DemoSource(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown post source %q (want %s, %s or %s)", cfg.Source, SourceFiles, SourceSQLite, SourceDemo)
	}
}
