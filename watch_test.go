package folio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vengy/folio/logger"
)

func TestIgnoreMatcher(t *testing.T) {
	m, err := newIgnoreMatcher([]string{"*.swp", "*~", ".#*", "*.tmp"})
	if err != nil {
		t.Fatalf("newIgnoreMatcher: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"content/posts/1.md", false},
		{"content/posts/.1.md.swp", true},
		{"content/posts.json~", true},
		{"content/.#posts.json", true},
		{"/tmp/x/write.tmp", true},
		{"content/posts.json", false},
	}
	for _, tt := range tests {
		if got := m.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchContentMissingDir(t *testing.T) {
	err := WatchContent(context.Background(), filepath.Join(t.TempDir(), "nope"), nil, logger.Nop(), func() {})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatchContentDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchContent(ctx, dir, []string{"*.swp"}, logger.Nop(), func() {
			changed <- struct{}{}
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "posts.json"), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("WatchContent returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WatchContent did not stop after cancel")
	}
}
