package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/vengy/folio/blog"
	"github.com/vengy/folio/page"
	"github.com/vengy/folio/posts"
)

var testProfile = Profile{
	Name:      "vengy",
	Tagline:   "i work on small trading tools in claude.",
	GitHubURL: "https://github.com/NickVengy",
	Email:     "vengyus@protonmail.com",
	Projects: []Project{
		{Name: "project-one", Description: "first project"},
	},
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func TestAppRendersExactlyOnePage(t *testing.T) {
	for _, pg := range page.All {
		t.Run(string(pg), func(t *testing.T) {
			out := render(t, App(testProfile, Model{Page: pg, Now: time.Now()}))
			for _, other := range page.All {
				marker := `data-page="` + string(other) + `"`
				n := strings.Count(out, marker)
				want := 0
				if other == pg {
					want = 1
				}
				if n != want {
					t.Errorf("%s marker count = %d, want %d", other, n, want)
				}
			}
			for _, action := range []string{"/nav/home", "/nav/blog", "/nav/contact"} {
				if !strings.Contains(out, `action="`+action+`"`) {
					t.Errorf("navigation missing %s", action)
				}
			}
			if !strings.Contains(out, "<footer") {
				t.Error("footer missing")
			}
		})
	}
}

func TestUnknownPageFallsBackToHome(t *testing.T) {
	out := render(t, App(testProfile, Model{Page: "about", Now: time.Now()}))
	if !strings.Contains(out, `data-page="home"`) {
		t.Errorf("expected home page, got %q", out)
	}
}

func TestFooterShowsRenderYear(t *testing.T) {
	now := time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC)
	out := render(t, App(testProfile, Model{Page: page.Home, Now: now}))
	if !strings.Contains(out, "© 2031 vengy.") {
		t.Errorf("footer year missing: %q", out)
	}
}

func TestBlogRendersContentOrSummary(t *testing.T) {
	full := "full A"
	state := blog.State{
		Mounted:  true,
		Selected: "1",
		Posts: []posts.Post{
			{ID: "1", Title: "A", Date: "2024-12-28", Summary: "sA", Content: &full},
			{ID: "2", Title: "B", Date: "2024-12-27", Summary: "sB"},
		},
	}
	out := render(t, App(testProfile, Model{Page: page.Blog, Blog: state, Now: time.Now(), CSRFToken: "tok"}))

	if !strings.Contains(out, "<p>full A</p>") {
		t.Errorf("expanded post should render its content: %q", out)
	}
	if strings.Contains(out, ">sA<") {
		t.Error("expanded post should not render its summary")
	}
	if !strings.Contains(out, ">sB<") {
		t.Error("collapsed post should render its summary")
	}
	if !strings.Contains(out, `action="/blog/2/toggle"`) {
		t.Error("toggle action missing")
	}
	if strings.Count(out, `name="_csrf" value="tok"`) != 5 {
		t.Errorf("every form should carry the csrf token")
	}
}

func TestBlogSelectedWithoutContentShowsSummary(t *testing.T) {
	state := blog.State{
		Mounted:  true,
		Selected: "1",
		Posts:    []posts.Post{{ID: "1", Title: "A", Summary: "sA"}},
	}
	out := render(t, App(testProfile, Model{Page: page.Blog, Blog: state, Now: time.Now()}))
	if !strings.Contains(out, ">sA<") || !strings.Contains(out, `data-expanded="false"`) {
		t.Errorf("selected post without content should show its summary: %q", out)
	}
}

func TestEmptyBlogRendersNoRows(t *testing.T) {
	out := render(t, App(testProfile, Model{Page: page.Blog, Now: time.Now()}))
	if strings.Contains(out, "post-info") {
		t.Errorf("empty blog rendered post rows: %q", out)
	}
}

func TestContactLinks(t *testing.T) {
	out := render(t, App(testProfile, Model{Page: page.Contact, Now: time.Now()}))
	if !strings.Contains(out, `href="https://github.com/NickVengy"`) {
		t.Error("github link missing")
	}
	if !strings.Contains(out, `href="mailto:vengyus@protonmail.com"`) {
		t.Error("email link missing")
	}
}

func TestEscaping(t *testing.T) {
	state := blog.State{Posts: []posts.Post{{ID: "x", Title: "<b>bold</b>", Summary: "a & b"}}}
	out := render(t, App(testProfile, Model{Page: page.Blog, Blog: state, Now: time.Now()}))
	if strings.Contains(out, "<b>bold</b>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(out, "a &amp; b") {
		t.Error("summary not escaped")
	}
}

func TestUnsafeProjectURLSanitized(t *testing.T) {
	p := testProfile
	p.Projects = []Project{{Name: "x", URL: "javascript:alert(1)"}}
	out := render(t, App(p, Model{Page: page.Home, Now: time.Now()}))
	if strings.Contains(out, "javascript:") {
		t.Errorf("unsafe url rendered: %q", out)
	}
}

func TestDocument(t *testing.T) {
	p := testProfile
	p.HTMXPath = "/public/htmx.min.js"
	out := render(t, Document(p, Model{Page: page.Blog, Now: time.Now()}))
	if !strings.HasPrefix(out, "<!doctype html>") {
		t.Errorf("doctype missing: %q", out)
	}
	if !strings.Contains(out, "<title>Blog · vengy</title>") {
		t.Errorf("title missing: %q", out)
	}
	if !strings.Contains(out, `<script src="/public/htmx.min.js"`) {
		t.Error("htmx script missing")
	}
	if !strings.Contains(out, `id="app"`) {
		t.Error("app region missing")
	}
}

func TestDocumentWithoutHTMX(t *testing.T) {
	out := render(t, Document(testProfile, Model{Page: page.Home, Now: time.Now()}))
	if strings.Contains(out, "<script") {
		t.Errorf("script rendered without an htmx path: %q", out)
	}
}

func TestProjectList(t *testing.T) {
	p := testProfile
	p.Projects = []Project{
		{Name: "folio", URL: "https://github.com/NickVengy/folio", Description: "this site"},
		{Name: "scratch"},
	}
	out := render(t, App(p, Model{Page: page.Home, Now: time.Now()}))
	if !strings.Contains(out, `<a href="https://github.com/NickVengy/folio" class="text-green-400 hover:text-green-300">folio</a>: this site</li>`) {
		t.Errorf("project with description rendered wrong: %q", out)
	}
	if !strings.Contains(out, `<a href="#" class="text-green-400 hover:text-green-300">scratch</a></li>`) {
		t.Errorf("project without url rendered wrong: %q", out)
	}
	if !strings.Contains(out, "most of my projects are on <a ") {
		t.Errorf("github sentence missing: %q", out)
	}
}

func TestErrorPages(t *testing.T) {
	tests := []struct {
		c     templ.Component
		title string
		msg   string
	}{
		{NotFound(testProfile), "<title>404 · vengy</title>", "nothing here. <a href=\"/\""},
		{ServerError(testProfile), "<title>500 · vengy</title>", "something broke."},
	}
	for _, tt := range tests {
		out := render(t, tt.c)
		if !strings.HasPrefix(out, "<!doctype html>") {
			t.Errorf("doctype missing: %q", out)
		}
		if !strings.Contains(out, tt.title) || !strings.Contains(out, tt.msg) {
			t.Errorf("error page missing %q or %q: %q", tt.title, tt.msg, out)
		}
		if !strings.Contains(out, "<footer") {
			t.Error("footer missing")
		}
	}
}

func TestToggleActionEscapesID(t *testing.T) {
	if got := toggleAction("a b"); got != "/blog/a%20b/toggle" {
		t.Errorf("toggleAction = %q", got)
	}
}

func TestDocumentTitle(t *testing.T) {
	if got := DocumentTitle(Profile{}, page.Contact); got != "Contact" {
		t.Errorf("DocumentTitle = %q, want %q", got, "Contact")
	}
	if got := DocumentTitle(testProfile, ""); got != "Home · vengy" {
		t.Errorf("DocumentTitle = %q, want %q", got, "Home · vengy")
	}
}
