// Package folio serves a personal portfolio site: a home page, a blog with
// expandable posts, and a contact page. Each visitor session gets its own
// controller holding the current page and blog state; the HTTP layer only
// translates navigation actions into controller transitions and renders
// the result.
package folio

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vengy/folio/controller"
	"github.com/vengy/folio/logger"
	"github.com/vengy/folio/posts"
)

// App is the central folio application. It wires together the post source,
// session registry, handlers, and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Source   posts.Source
	Sessions *Registry
	Log      *logger.Logger

	sessionLimiter *SessionLimiter
	customRoutes   []func(*App)
	clock          func() time.Time
}

// New creates an App serving posts from src. Call Setup (or Start) before
// handling requests.
func New(cfg SiteConfig, src posts.Source, log *logger.Logger, opts ...Option) *App {
	cfg.setDefaults()
	if log == nil {
		log = logger.Nop()
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Source: src,
		Log:    log,
		clock:  time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup creates the session registry and limiter and registers middleware
// and routes. It is idempotent only in the sense that calling it twice is a
// programming error.
func (a *App) Setup() error {
	if a.Source == nil {
		return errors.New("folio: post source is required")
	}
	if err := checkScriptPath(a.Config.Profile.HTMXPath); err != nil {
		return fmt.Errorf("folio: %w", err)
	}
	if a.Config.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("folio: generate session secret: %w", err)
		}
		a.Config.SessionSecret = secret
		a.Log.Warn("no session secret configured, using a random one; sessions reset on restart")
	}

	a.Sessions = NewRegistry(a.Config.SessionTTL, a.newController)
	a.sessionLimiter = NewSessionLimiter(a.Config.SessionsPerMinute, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}
	defer a.Close()

	if a.Config.Watch {
		go func() {
			err := WatchContent(ctx, a.Config.ContentDir, a.Config.WatchIgnore, a.Log, func() {
				n := a.Sessions.RemountBlogs()
				a.Log.Info("content changed, remounted blog views", "sessions", n)
			})
			if err != nil {
				a.Log.Error("content watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded stylesheet first so a user file of the same name can't shadow it.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/folio.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleIndex)
	e.POST("/nav/:page", a.handleNav)
	e.POST("/blog/:id/toggle", a.handleToggle)
}

func (a *App) newController() *controller.Controller {
	return controller.New(a.Source, a.Log, controller.WithClock(a.clock))
}

// Close stops background janitors. The post source is owned by the caller.
func (a *App) Close() error {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.sessionLimiter != nil {
		a.sessionLimiter.Close()
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
