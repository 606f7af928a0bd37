package folio

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/vengy/folio/logger"
)

const watchDebounce = 500 * time.Millisecond

// ignoreMatcher reports whether a changed path should be skipped. Patterns
// match against the file's base name.
type ignoreMatcher []glob.Glob

func newIgnoreMatcher(patterns []string) (ignoreMatcher, error) {
	m := make(ignoreMatcher, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		m = append(m, g)
	}
	return m, nil
}

func (m ignoreMatcher) Match(name string) bool {
	base := filepath.Base(name)
	for _, g := range m {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// WatchContent watches dir and its subdirectories and calls onChange once
// per burst of relevant changes. It blocks until ctx is cancelled.
func WatchContent(ctx context.Context, dir string, ignore []string, log *logger.Logger, onChange func()) error {
	skip, err := newIgnoreMatcher(ignore)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("watching content", "dir", dir)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || skip.Match(event.Name) {
				continue
			}
			log.Debug("content change", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Warn("watch new directory", "path", event.Name, "error", err)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
