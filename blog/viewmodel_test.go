package blog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vengy/folio/logger"
	"github.com/vengy/folio/posts"
)

// fakeSource serves a fixed index and bodies. Bodies listed in gates block
// until the gate channel is closed.
type fakeSource struct {
	mu        sync.Mutex
	index     []posts.Post
	indexErr  error
	bodies    map[posts.ID]string
	gates     map[posts.ID]chan struct{}
	bodyCalls map[posts.ID]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		index: []posts.Post{
			{ID: "1", Title: "A", Summary: "sA"},
			{ID: "2", Title: "B", Summary: "sB"},
		},
		bodies:    map[posts.ID]string{"1": "full A", "2": "full B"},
		gates:     map[posts.ID]chan struct{}{},
		bodyCalls: map[posts.ID]int{},
	}
}

func (f *fakeSource) gate(id posts.ID) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[id] = ch
	return ch
}

func (f *fakeSource) calls(id posts.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodyCalls[id]
}

func (f *fakeSource) LoadIndex(ctx context.Context) ([]posts.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	out := make([]posts.Post, len(f.index))
	copy(out, f.index)
	return out, nil
}

func (f *fakeSource) LoadBody(ctx context.Context, id posts.ID) (string, error) {
	f.mu.Lock()
	f.bodyCalls[id]++
	gate := f.gates[id]
	body, ok := f.bodies[id]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if !ok {
		return "", posts.ErrBodyUnavailable
	}
	return body, nil
}

func waitTask(t *testing.T, task *Task) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := task.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("task did not complete")
	}
	return err
}

func mounted(t *testing.T, src posts.Source) *ViewModel {
	t.Helper()
	vm := New(src, nil)
	if err := waitTask(t, vm.Mount()); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	return vm
}

func toggle(t *testing.T, vm *ViewModel, id posts.ID) *Task {
	t.Helper()
	task, err := vm.Toggle(id)
	if err != nil {
		t.Fatalf("Toggle(%s) failed: %v", id, err)
	}
	return task
}

func postByID(s State, id posts.ID) posts.Post {
	for _, p := range s.Posts {
		if p.ID == id {
			return p
		}
	}
	return posts.Post{}
}

func TestMountLoadsIndexCollapsed(t *testing.T) {
	vm := mounted(t, newFakeSource())
	s := vm.Snapshot()
	if !s.Mounted {
		t.Error("Mounted should be true")
	}
	if len(s.Posts) != 2 || s.Posts[0].ID != "1" || s.Posts[1].ID != "2" {
		t.Fatalf("posts = %+v, want ids [1 2]", s.Posts)
	}
	if s.Selected != "" {
		t.Errorf("Selected = %q, want collapsed", s.Selected)
	}
}

func TestMountIndexFailureLeavesListEmpty(t *testing.T) {
	src := newFakeSource()
	src.indexErr = posts.ErrIndexUnavailable
	var buf bytes.Buffer
	vm := New(src, logger.NewWriter(&buf))

	err := waitTask(t, vm.Mount())
	if !errors.Is(err, posts.ErrIndexUnavailable) {
		t.Fatalf("Mount err = %v, want ErrIndexUnavailable", err)
	}
	if got := vm.Snapshot().Posts; len(got) != 0 {
		t.Errorf("posts = %+v, want empty", got)
	}
	if !strings.Contains(buf.String(), "load post index") {
		t.Errorf("index failure not logged: %s", buf.String())
	}
}

func TestToggleUnknownIDRejected(t *testing.T) {
	vm := mounted(t, newFakeSource())

	_, err := vm.Toggle("99")
	if !errors.Is(err, ErrUnknownPost) {
		t.Fatalf("Toggle(99) err = %v, want ErrUnknownPost", err)
	}
	if s := vm.Snapshot(); s.Selected != "" {
		t.Errorf("Selected = %q after unknown toggle", s.Selected)
	}
	if _, err := vm.Toggle(""); !errors.Is(err, ErrUnknownPost) {
		t.Errorf("Toggle(\"\") err = %v, want ErrUnknownPost", err)
	}
}

func TestToggleBeforeMountRejected(t *testing.T) {
	vm := New(newFakeSource(), nil)
	if _, err := vm.Toggle("1"); !errors.Is(err, ErrUnknownPost) {
		t.Fatalf("Toggle before mount err = %v, want ErrUnknownPost", err)
	}
}

func TestToggleScenario(t *testing.T) {
	src := newFakeSource()
	vm := mounted(t, src)

	if err := waitTask(t, toggle(t, vm, "1")); err != nil {
		t.Fatalf("expand 1 failed: %v", err)
	}
	s := vm.Snapshot()
	p1 := postByID(s, "1")
	if !s.ShowsContent(p1) || p1.Body() != "full A" {
		t.Fatalf("post 1 should show %q, got selected=%q body=%q", "full A", s.Selected, p1.Body())
	}

	if err := waitTask(t, toggle(t, vm, "1")); err != nil {
		t.Fatalf("collapse 1 failed: %v", err)
	}
	s = vm.Snapshot()
	if s.Selected != "" {
		t.Fatalf("Selected = %q, want collapsed", s.Selected)
	}
	if s.ShowsContent(postByID(s, "1")) {
		t.Error("collapsed post 1 should show its summary")
	}
	if n := src.calls("1"); n != 1 {
		t.Errorf("LoadBody(1) calls = %d, want 1", n)
	}

	gate := src.gate("2")
	task := toggle(t, vm, "2")
	s = vm.Snapshot()
	if s.Selected != "" || s.ShowsContent(postByID(s, "2")) {
		t.Fatalf("post 2 should show its summary while loading, selected=%q", s.Selected)
	}
	close(gate)
	if err := waitTask(t, task); err != nil {
		t.Fatalf("expand 2 failed: %v", err)
	}
	s = vm.Snapshot()
	p2 := postByID(s, "2")
	if s.Selected != "2" || !s.ShowsContent(p2) || p2.Body() != "full B" {
		t.Errorf("post 2 should show %q, got selected=%q body=%q", "full B", s.Selected, p2.Body())
	}
}

func TestLoadedBodyIsNeverRefetched(t *testing.T) {
	src := newFakeSource()
	vm := mounted(t, src)

	waitTask(t, toggle(t, vm, "1"))
	waitTask(t, toggle(t, vm, "2"))
	task := toggle(t, vm, "1")
	select {
	case <-task.Done():
	default:
		t.Fatal("expanding a loaded post should complete immediately")
	}
	if n := src.calls("1"); n != 1 {
		t.Errorf("LoadBody(1) calls = %d, want 1", n)
	}
	if s := vm.Snapshot(); s.Selected != "1" {
		t.Errorf("Selected = %q, want 1", s.Selected)
	}
}

func TestBodyFailureKeepsPriorState(t *testing.T) {
	src := newFakeSource()
	delete(src.bodies, "2")
	var buf bytes.Buffer
	vm := New(src, logger.NewWriter(&buf))
	waitTask(t, vm.Mount())

	waitTask(t, toggle(t, vm, "1"))
	err := waitTask(t, toggle(t, vm, "2"))
	if !errors.Is(err, posts.ErrBodyUnavailable) {
		t.Fatalf("toggle 2 err = %v, want ErrBodyUnavailable", err)
	}
	s := vm.Snapshot()
	if s.Selected != "1" {
		t.Errorf("Selected = %q, want prior state 1", s.Selected)
	}
	p2 := postByID(s, "2")
	if p2.Loaded() || s.ShowsContent(p2) {
		t.Error("failed post should keep showing its summary")
	}
	if !strings.Contains(buf.String(), "load post body") {
		t.Errorf("body failure not logged: %s", buf.String())
	}
}

func TestOutOfOrderCompletions(t *testing.T) {
	src := newFakeSource()
	vm := mounted(t, src)
	gate1 := src.gate("1")
	gate2 := src.gate("2")

	task1 := toggle(t, vm, "1")
	task2 := toggle(t, vm, "2")

	close(gate2)
	waitTask(t, task2)
	if s := vm.Snapshot(); s.Selected != "2" || postByID(s, "1").Loaded() {
		t.Fatalf("after 2 resolves: selected=%q, post 1 loaded=%v", s.Selected, postByID(s, "1").Loaded())
	}

	close(gate1)
	waitTask(t, task1)
	s := vm.Snapshot()
	if s.Selected != "1" {
		t.Errorf("Selected = %q, want 1", s.Selected)
	}
	if postByID(s, "1").Body() != "full A" || postByID(s, "2").Body() != "full B" {
		t.Errorf("bodies = %q, %q", postByID(s, "1").Body(), postByID(s, "2").Body())
	}
}

func TestRemountDiscardsInFlightLoads(t *testing.T) {
	src := newFakeSource()
	vm := mounted(t, src)
	gate := src.gate("1")
	task := toggle(t, vm, "1")

	vm.Unmount()
	if s := vm.Snapshot(); s.Mounted || len(s.Posts) != 0 {
		t.Fatalf("after Unmount: %+v", s)
	}
	waitTask(t, vm.Mount())

	close(gate)
	if err := waitTask(t, task); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("stale task err = %v, want ErrSuperseded", err)
	}
	s := vm.Snapshot()
	if s.Selected != "" || postByID(s, "1").Loaded() {
		t.Errorf("stale completion leaked into new mount: %+v", s)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	vm := mounted(t, newFakeSource())
	s := vm.Snapshot()
	s.Posts[0].Title = "changed"
	if vm.Snapshot().Posts[0].Title != "A" {
		t.Error("snapshot shares its slice with the view model")
	}
}
