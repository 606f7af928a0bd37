// Package views composes the site markup from a render Model. Components
// hold no state; everything they show comes from the Profile and Model.
//
// The markup lives in .templ files; run `templ generate` after editing them.
package views

import (
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vengy/folio/page"
	"github.com/vengy/folio/posts"
)

// AppID is the element id htmx swaps on navigation and toggles.
const AppID = "app"

var titleCase = cases.Title(language.English)

// DocumentTitle is the <title> for pg, e.g. "Blog · vengy".
func DocumentTitle(p Profile, pg page.Page) string {
	if !pg.Valid() {
		pg = page.Home
	}
	title := titleCase.String(string(pg))
	if p.Name == "" {
		return title
	}
	return title + " · " + p.Name
}

func navAction(pg page.Page) string {
	return "/nav/" + string(pg)
}

func toggleAction(id posts.ID) string {
	return "/blog/" + url.PathEscape(string(id)) + "/toggle"
}

func projectHref(pr Project) string {
	if pr.URL == "" {
		return "#"
	}
	return pr.URL
}

// projectNote is the text after a project link.
func projectNote(pr Project) string {
	if pr.Description == "" {
		return ""
	}
	return ": " + pr.Description
}
