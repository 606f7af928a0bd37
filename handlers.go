package folio

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vengy/folio/blog"
	"github.com/vengy/folio/controller"
	"github.com/vengy/folio/page"
	"github.com/vengy/folio/posts"
	"github.com/vengy/folio/views"
)

func (a *App) handleIndex(c echo.Context) error {
	ctrl, err := a.controllerFor(c)
	if err != nil {
		return err
	}
	return a.renderView(c, ctrl)
}

// handleNav applies a navigation action. Entering the blog waits for the
// index so the first render already lists the posts.
func (a *App) handleNav(c echo.Context) error {
	p, err := page.Parse(c.Param("page"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	ctrl, err := a.controllerFor(c)
	if err != nil {
		return err
	}
	task, err := ctrl.Navigate(p)
	if err != nil {
		return err
	}
	a.await(c, task)
	return a.respond(c, ctrl)
}

// handleToggle expands or collapses a post. Unknown ids leave the view as is.
// The body load keeps running if the wait gives up first; the next render
// picks it up.
func (a *App) handleToggle(c echo.Context) error {
	ctrl, err := a.controllerFor(c)
	if err != nil {
		return err
	}
	id := posts.ID(c.Param("id"))
	task, err := ctrl.TogglePost(id)
	if err != nil {
		if !errors.Is(err, blog.ErrUnknownPost) {
			return err
		}
		a.Log.Debug("toggle ignored", "post", string(id), "error", err)
	}
	a.await(c, task)
	return a.respond(c, ctrl)
}

func (a *App) await(c echo.Context, task *blog.Task) {
	if task == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), a.Config.ToggleWait)
	defer cancel()
	if err := task.Wait(ctx); errors.Is(err, context.DeadlineExceeded) {
		a.Log.Debug("responding before load finished", "wait", a.Config.ToggleWait)
	}
}

// respond renders the app region for htmx and redirects plain form posts
// back to the page so a reload doesn't resubmit.
func (a *App) respond(c echo.Context, ctrl *controller.Controller) error {
	if isHTMX(c) {
		m := ctrl.View()
		m.CSRFToken = CsrfToken(c)
		return Render(c, views.App(a.Config.Profile, m))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) renderView(c echo.Context, ctrl *controller.Controller) error {
	m := ctrl.View()
	m.CSRFToken = CsrfToken(c)
	if isHTMX(c) {
		return Render(c, views.App(a.Config.Profile, m))
	}
	return Render(c, views.Document(a.Config.Profile, m))
}

func (a *App) handleFeed(c echo.Context) error {
	list, err := a.Source.LoadIndex(c.Request().Context())
	if err != nil {
		a.Log.Error("feed: load post index", "error", err)
		list = nil
	}
	return a.renderRSS(c, list)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, "User-agent: *\nAllow: /\nDisallow: /nav/\nDisallow: /blog/\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.Profile))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error("server error", "error", err, "uri", c.Request().RequestURI)
		_ = RenderStatus(c, code, views.ServerError(a.Config.Profile))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
