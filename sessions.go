package folio

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/vengy/folio/controller"
)

const (
	sessionName  = "folio_session"
	sessionIDKey = "sid"
)

type sessionEntry struct {
	ctrl     *controller.Controller
	lastSeen time.Time
}

// Registry maps session ids to controllers. Idle sessions are evicted after
// ttl by a background janitor.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	factory func() *controller.Controller
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a Registry that builds controllers with factory.
func NewRegistry(ttl time.Duration, factory func() *controller.Controller) *Registry {
	r := &Registry{
		entries: make(map[string]*sessionEntry),
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go r.janitor()
	return r
}

func (r *Registry) janitor() {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sweep()
		case <-r.stop:
			return
		}
	}
}

// sweep drops expired sessions and returns how many were removed.
func (r *Registry) sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Get returns the controller for id and marks the session as active.
func (r *Registry) Get(id string) (*controller.Controller, bool) {
	if id == "" {
		return nil, false
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if e.lastSeen.Before(now.Add(-r.ttl)) {
		delete(r.entries, id)
		return nil, false
	}
	e.lastSeen = now
	return e.ctrl, true
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *controller.Controller) {
	id := uuid.NewString()
	ctrl := r.factory()
	r.mu.Lock()
	r.entries[id] = &sessionEntry{ctrl: ctrl, lastSeen: r.now()}
	r.mu.Unlock()
	return id, ctrl
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// RemountBlogs reloads the blog index of every session showing the blog
// and returns how many were remounted.
func (r *Registry) RemountBlogs() int {
	r.mu.Lock()
	ctrls := make([]*controller.Controller, 0, len(r.entries))
	for _, e := range r.entries {
		ctrls = append(ctrls, e.ctrl)
	}
	r.mu.Unlock()

	n := 0
	for _, c := range ctrls {
		if c.Remount() != nil {
			n++
		}
	}
	return n
}

// Close stops the janitor.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// controllerFor returns the controller bound to the request's cookie
// session, creating a session when there is none or it has expired.
func (a *App) controllerFor(c echo.Context) (*controller.Controller, error) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return nil, err
	}
	if err != nil {
		// A cookie signed with an old secret decodes with an error but
		// still yields a fresh session to write into.
		a.Log.Debug("discarding unreadable session cookie", "error", err)
	}
	if id, ok := sess.Values[sessionIDKey].(string); ok {
		if ctrl, ok := a.Sessions.Get(id); ok {
			return ctrl, nil
		}
	}
	if !a.sessionLimiter.Allow(c.RealIP()) {
		return nil, echo.NewHTTPError(http.StatusTooManyRequests, "Too many new sessions. Try again later.")
	}
	id, ctrl := a.Sessions.Create()
	sess.Values[sessionIDKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(a.Config.SessionTTL / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}
