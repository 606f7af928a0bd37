package folio

import (
	"testing"
	"time"

	"github.com/vengy/folio/blog"
	"github.com/vengy/folio/controller"
	"github.com/vengy/folio/logger"
	"github.com/vengy/folio/page"
	"github.com/vengy/folio/posts"
)

func newTestRegistry(t *testing.T, ttl time.Duration) (*Registry, *time.Time) {
	t.Helper()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(ttl, func() *controller.Controller {
		return controller.New(posts.DemoSource(), logger.Nop())
	})
	r.now = func() time.Time { return now }
	t.Cleanup(r.Close)
	return r, &now
}

func TestRegistryCreateAndGet(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	id, ctrl := r.Create()
	if id == "" || ctrl == nil {
		t.Fatal("Create returned an empty session")
	}
	got, ok := r.Get(id)
	if !ok || got != ctrl {
		t.Fatal("Get did not return the created controller")
	}
	if _, ok := r.Get("unknown"); ok {
		t.Fatal("Get found an unknown id")
	}
	if _, ok := r.Get(""); ok {
		t.Fatal("Get found the empty id")
	}
}

func TestRegistryIDsAreUnique(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)
	a, _ := r.Create()
	b, _ := r.Create()
	if a == b {
		t.Fatalf("duplicate session id %q", a)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	r, now := newTestRegistry(t, time.Hour)
	idle, _ := r.Create()
	active, _ := r.Create()

	*now = now.Add(40 * time.Minute)
	if _, ok := r.Get(active); !ok {
		t.Fatal("active session expired early")
	}

	*now = now.Add(30 * time.Minute)
	if removed := r.sweep(); removed != 1 {
		t.Fatalf("sweep removed %d, want 1", removed)
	}
	if _, ok := r.Get(idle); ok {
		t.Fatal("idle session survived the sweep")
	}
	if _, ok := r.Get(active); !ok {
		t.Fatal("touched session was swept")
	}
}

func TestRegistryGetExpiresWithoutSweep(t *testing.T) {
	r, now := newTestRegistry(t, time.Minute)
	id, _ := r.Create()
	*now = now.Add(2 * time.Minute)
	if _, ok := r.Get(id); ok {
		t.Fatal("expired session returned")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

func TestRegistryRemountBlogs(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)
	_, onBlog := r.Create()
	_, onHome := r.Create()

	task, err := onBlog.Navigate(page.Blog)
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, task)

	if n := r.RemountBlogs(); n != 1 {
		t.Fatalf("RemountBlogs = %d, want 1", n)
	}
	if onHome.View().Blog.Mounted {
		t.Fatal("home session should not mount the blog")
	}
}

func waitFor(t *testing.T, task *blog.Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish")
	}
}
