package folio

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vengy/folio/views"
)

// Source kinds accepted by SiteConfig.Source.
const (
	SourceFiles  = "files"
	SourceSQLite = "sqlite"
	SourceDemo   = "demo"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Profile     views.Profile `mapstructure:"profile"`
	URL         string        `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string        `mapstructure:"description"` // Feed description

	Addr string `mapstructure:"addr"` // Listen address (default ":3000")

	Source       string `mapstructure:"source"`       // files, sqlite or demo (default files)
	ContentDir   string `mapstructure:"contentDir"`   // Index and bodies (default "content")
	IndexFile    string `mapstructure:"indexFile"`    // Index path inside ContentDir (default "posts.json")
	DatabasePath string `mapstructure:"databasePath"` // SQLite path (default "data/posts.db")
	StaticDir    string `mapstructure:"staticDir"`    // User static assets (default "public")

	SessionSecret     string        `mapstructure:"sessionSecret"`     // Cookie signing secret; random when empty
	CookieSecure      bool          `mapstructure:"cookieSecure"`      // Set true for HTTPS
	SessionTTL        time.Duration `mapstructure:"sessionTTL"`        // Idle session lifetime (default 12h)
	SessionsPerMinute int           `mapstructure:"sessionsPerMinute"` // New sessions per IP per minute (default 30)
	ToggleWait        time.Duration `mapstructure:"toggleWait"`        // Max wait for a body before responding (default 5s)

	Watch       bool     `mapstructure:"watch"`       // Remount blog views when content changes
	WatchIgnore []string `mapstructure:"watchIgnore"` // Glob patterns the watcher skips
}

// Defaults returns a SiteConfig with every default applied.
func Defaults() SiteConfig {
	var c SiteConfig
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Profile.Name == "" {
		c.Profile.Name = "me"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Source == "" {
		c.Source = SourceFiles
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.IndexFile == "" {
		c.IndexFile = "posts.json"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/posts.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 12 * time.Hour
	}
	if c.SessionsPerMinute == 0 {
		c.SessionsPerMinute = 30
	}
	if c.ToggleWait == 0 {
		c.ToggleWait = 5 * time.Second
	}
	if c.WatchIgnore == nil {
		c.WatchIgnore = []string{"*.swp", "*~", ".#*", "*.tmp"}
	}
}

// checkScriptPath accepts an empty path or a path on this origin. The
// content security policy only allows same-origin scripts.
func checkScriptPath(p string) error {
	if p == "" {
		return nil
	}
	u, err := url.Parse(p)
	if err != nil {
		return fmt.Errorf("htmx path %q: %w", p, err)
	}
	if u.Scheme != "" || u.Host != "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return fmt.Errorf("htmx path %q must be a same-origin path such as /public/htmx.min.js", p)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock overrides the time source passed to every session controller.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.clock = now
	}
}
