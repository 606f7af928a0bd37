package folio

import (
	"testing"
	"time"

	"github.com/vengy/folio/posts"
)

func TestDefaults(t *testing.T) {
	c := Defaults()

	if c.Profile.Name != "me" {
		t.Errorf("Profile.Name = %q", c.Profile.Name)
	}
	if c.Addr != ":3000" || c.URL != "http://localhost:3000" {
		t.Errorf("Addr/URL = %q %q", c.Addr, c.URL)
	}
	if c.Source != SourceFiles || c.ContentDir != "content" || c.IndexFile != "posts.json" {
		t.Errorf("source defaults = %q %q %q", c.Source, c.ContentDir, c.IndexFile)
	}
	if c.SessionTTL != 12*time.Hour || c.SessionsPerMinute != 30 || c.ToggleWait != 5*time.Second {
		t.Errorf("session defaults = %v %d %v", c.SessionTTL, c.SessionsPerMinute, c.ToggleWait)
	}
	if len(c.WatchIgnore) == 0 {
		t.Error("WatchIgnore is empty")
	}
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	c := SiteConfig{Addr: ":8080", SessionTTL: time.Minute, WatchIgnore: []string{}}
	c.setDefaults()
	if c.Addr != ":8080" || c.SessionTTL != time.Minute {
		t.Errorf("explicit values overwritten: %q %v", c.Addr, c.SessionTTL)
	}
	if len(c.WatchIgnore) != 0 {
		t.Errorf("explicit empty WatchIgnore replaced: %v", c.WatchIgnore)
	}
}

func TestOpenSource(t *testing.T) {
	dir := t.TempDir()

	src, closer, err := OpenSource(SiteConfig{Source: SourceFiles, ContentDir: dir, IndexFile: "posts.yaml"})
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	closer.Close()
	fs, ok := src.(*posts.FileSource)
	if !ok || fs.IndexPath != "posts.yaml" {
		t.Fatalf("files source = %#v", src)
	}

	src, closer, err = OpenSource(SiteConfig{Source: SourceDemo})
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	closer.Close()
	if _, ok := src.(*posts.StaticSource); !ok {
		t.Fatalf("demo source = %#v", src)
	}

	if _, _, err := OpenSource(SiteConfig{Source: SourceSQLite, DatabasePath: dir + "/missing.db"}); err == nil {
		t.Fatal("expected error for missing database")
	}
	if _, _, err := OpenSource(SiteConfig{Source: "ftp"}); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
