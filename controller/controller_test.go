package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vengy/folio/blog"
	"github.com/vengy/folio/page"
	"github.com/vengy/folio/posts"
)

type countingSource struct {
	posts.Source
	indexLoads atomic.Int32
}

func (s *countingSource) LoadIndex(ctx context.Context) ([]posts.Post, error) {
	s.indexLoads.Add(1)
	return s.Source.LoadIndex(ctx)
}

func wait(t *testing.T, task *blog.Task) {
	t.Helper()
	if task == nil {
		t.Fatal("expected a task")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := task.Wait(ctx); err != nil {
		t.Fatalf("task failed: %v", err)
	}
}

func TestNewStartsOnHomeUnmounted(t *testing.T) {
	c := New(posts.DemoSource(), nil)
	m := c.View()
	if m.Page != page.Home {
		t.Errorf("Page = %q, want home", m.Page)
	}
	if m.Blog.Mounted || len(m.Blog.Posts) != 0 {
		t.Errorf("blog should not be mounted: %+v", m.Blog)
	}
}

func TestNavigateToBlogMountsOnce(t *testing.T) {
	src := &countingSource{Source: posts.DemoSource()}
	c := New(src, nil)

	task, err := c.Navigate(page.Blog)
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	wait(t, task)
	if n := len(c.View().Blog.Posts); n != 2 {
		t.Fatalf("posts = %d, want 2", n)
	}

	task, err = c.Navigate(page.Blog)
	if err != nil || task != nil {
		t.Fatalf("re-selecting blog should be a no-op, got task=%v err=%v", task, err)
	}
	if n := src.indexLoads.Load(); n != 1 {
		t.Errorf("index loads = %d, want 1", n)
	}
}

func TestLeavingBlogUnmountsAndReturningReloads(t *testing.T) {
	src := &countingSource{Source: posts.DemoSource()}
	c := New(src, nil)

	task, _ := c.Navigate(page.Blog)
	wait(t, task)
	toggle, err := c.TogglePost("1")
	if err != nil {
		t.Fatalf("TogglePost failed: %v", err)
	}
	wait(t, toggle)

	if _, err := c.Navigate(page.Contact); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	m := c.View()
	if m.Page != page.Contact || m.Blog.Mounted || m.Blog.Selected != "" {
		t.Fatalf("after leaving blog: %+v", m)
	}
	if _, err := c.TogglePost("1"); !errors.Is(err, blog.ErrUnknownPost) {
		t.Errorf("toggle while unmounted err = %v, want ErrUnknownPost", err)
	}

	task, _ = c.Navigate(page.Blog)
	wait(t, task)
	m = c.View()
	if m.Blog.Selected != "" || m.Blog.Posts[0].Loaded() {
		t.Errorf("remounted blog should start collapsed without bodies: %+v", m.Blog)
	}
	if n := src.indexLoads.Load(); n != 2 {
		t.Errorf("index loads = %d, want 2", n)
	}
}

func TestNavigateRejectsUnknownPage(t *testing.T) {
	c := New(posts.DemoSource(), nil)
	if _, err := c.Navigate("about"); !errors.Is(err, page.ErrUnknownPage) {
		t.Fatalf("err = %v, want ErrUnknownPage", err)
	}
	if c.Page() != page.Home {
		t.Errorf("Page = %q, want home", c.Page())
	}
}

func TestRemount(t *testing.T) {
	src := &countingSource{Source: posts.DemoSource()}
	c := New(src, nil)
	if task := c.Remount(); task != nil {
		t.Fatal("Remount off the blog page should do nothing")
	}
	task, _ := c.Navigate(page.Blog)
	wait(t, task)
	wait(t, c.Remount())
	if n := src.indexLoads.Load(); n != 2 {
		t.Errorf("index loads = %d, want 2", n)
	}
}

func TestViewUsesClock(t *testing.T) {
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	c := New(posts.DemoSource(), nil, WithClock(func() time.Time { return fixed }))
	if got := c.View().Now; !got.Equal(fixed) {
		t.Errorf("Now = %v, want %v", got, fixed)
	}
}

func TestViewPairsPageWithMount(t *testing.T) {
	c := New(posts.DemoSource(), nil)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			next := page.Home
			if i%2 == 0 {
				next = page.Blog
			}
			if _, err := c.Navigate(next); err != nil {
				t.Errorf("Navigate(%q): %v", next, err)
				return
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		v := c.View()
		if (v.Page == page.Blog) != v.Blog.Mounted {
			t.Errorf("view %d: page %q with mounted=%v", i, v.Page, v.Blog.Mounted)
			break
		}
	}
	close(stop)
	wg.Wait()
}
