package views

import (
	"time"

	"github.com/vengy/folio/blog"
	"github.com/vengy/folio/page"
)

// Project is one entry in the home page project list.
type Project struct {
	Name        string `mapstructure:"name"`
	URL         string `mapstructure:"url"`
	Description string `mapstructure:"description"`
}

// Profile is the fixed site copy: who the site belongs to and where to
// reach them. Every template reads from it so nothing personal is hardcoded.
type Profile struct {
	Name      string    `mapstructure:"name"`      // shown in the heading and footer
	Tagline   string    `mapstructure:"tagline"`   // first line of the home page
	GitHubURL string    `mapstructure:"githubURL"` // profile link on home and contact
	Email     string    `mapstructure:"email"`     // contact mail-to address
	Projects  []Project `mapstructure:"projects"`
	HTMXPath  string    `mapstructure:"htmxPath"` // optional same-origin htmx script path, e.g. /public/htmx.min.js
}

// Model is everything one render needs. Controllers produce it; the
// handler adds the request's CSRF token.
type Model struct {
	Page      page.Page
	Blog      blog.State
	Now       time.Time
	CSRFToken string
}
