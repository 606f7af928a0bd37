// Package blog holds the blog page state: the loaded post list and which
// post, if any, is expanded. Bodies are fetched on first expansion and kept
// for the rest of the mount.
package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vengy/folio/logger"
	"github.com/vengy/folio/posts"
)

var (
	// ErrUnknownPost is returned when toggling an id that is not in the list.
	ErrUnknownPost = errors.New("unknown post")
	// ErrSuperseded completes tasks whose result arrived after a remount.
	ErrSuperseded = errors.New("blog view remounted before load completed")
)

// State is an immutable snapshot of the view model.
type State struct {
	Posts    []posts.Post
	Selected posts.ID // empty when collapsed
	Mounted  bool
}

// ShowsContent reports whether p renders its body rather than its summary.
func (s State) ShowsContent(p posts.Post) bool {
	return s.Selected != "" && s.Selected == p.ID && p.Loaded()
}

// ViewModel is safe for concurrent use. All transitions, including load
// completions, run under one mutex.
type ViewModel struct {
	source posts.Source
	log    *logger.Logger

	mu       sync.Mutex
	posts    []posts.Post
	selected posts.ID
	mount    uint64
	mounted  bool
}

// New creates an unmounted view model reading through src.
func New(src posts.Source, log *logger.Logger) *ViewModel {
	if log == nil {
		log = logger.Nop()
	}
	return &ViewModel{source: src, log: log}
}

// Mount clears the state and starts loading the index. Index failures leave
// the list empty; they are logged and reported on the task.
func (vm *ViewModel) Mount() *Task {
	vm.mu.Lock()
	vm.mount++
	gen := vm.mount
	vm.posts = nil
	vm.selected = ""
	vm.mounted = true
	vm.mu.Unlock()

	t := newTask()
	go func() {
		list, err := vm.source.LoadIndex(context.Background())

		vm.mu.Lock()
		defer vm.mu.Unlock()
		if gen != vm.mount {
			t.finish(ErrSuperseded)
			return
		}
		if err != nil {
			vm.log.Error("load post index", "error", err)
			t.finish(err)
			return
		}
		vm.posts = list
		vm.log.Debug("post index loaded", "posts", len(list))
		t.finish(nil)
	}()
	return t
}

// Unmount drops all state. Loads still in flight are discarded on arrival.
func (vm *ViewModel) Unmount() {
	vm.mu.Lock()
	vm.mount++
	vm.posts = nil
	vm.selected = ""
	vm.mounted = false
	vm.mu.Unlock()
}

// Toggle expands or collapses the post with the given id. Collapsing and
// expanding an already loaded post complete immediately; otherwise the body
// is fetched first and the post expands only if the fetch succeeds.
func (vm *ViewModel) Toggle(id posts.ID) (*Task, error) {
	vm.mu.Lock()
	i := vm.indexOf(id)
	if i < 0 {
		vm.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownPost, id)
	}
	if vm.selected == id {
		vm.selected = ""
		vm.mu.Unlock()
		return completedTask(nil), nil
	}
	if vm.posts[i].Loaded() {
		vm.selected = id
		vm.mu.Unlock()
		return completedTask(nil), nil
	}
	gen := vm.mount
	vm.mu.Unlock()

	t := newTask()
	go vm.loadBody(gen, id, t)
	return t, nil
}

func (vm *ViewModel) loadBody(gen uint64, id posts.ID, t *Task) {
	body, err := vm.source.LoadBody(context.Background(), id)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.mount {
		t.finish(ErrSuperseded)
		return
	}
	if err != nil {
		vm.log.Warn("load post body", "post", string(id), "error", err)
		t.finish(err)
		return
	}
	i := vm.indexOf(id)
	if i < 0 {
		t.finish(fmt.Errorf("%w: %q", ErrUnknownPost, id))
		return
	}
	// A concurrent toggle of the same post may have landed first.
	if !vm.posts[i].Loaded() {
		vm.posts[i].Content = &body
	}
	vm.selected = id
	t.finish(nil)
}

// Snapshot copies the current state.
func (vm *ViewModel) Snapshot() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	list := make([]posts.Post, len(vm.posts))
	copy(list, vm.posts)
	return State{Posts: list, Selected: vm.selected, Mounted: vm.mounted}
}

// Mounted reports whether the view is currently mounted.
func (vm *ViewModel) Mounted() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.mounted
}

func (vm *ViewModel) indexOf(id posts.ID) int {
	if id == "" {
		return -1
	}
	for i := range vm.posts {
		if vm.posts[i].ID == id {
			return i
		}
	}
	return -1
}
