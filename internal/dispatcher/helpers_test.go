package dispatcher_test

import (
	"strings"
	"sync"

	"github.com/arlenmoss/herald/internal/host"
)

// fakeRaw is a host raw command entry recording executor bindings.
type fakeRaw struct {
	mu    sync.Mutex
	name  string
	exec  host.Executor
	binds int
}

func (r *fakeRaw) Name() string { return r.name }

func (r *fakeRaw) Bind(e host.Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exec == e {
		return
	}
	r.exec = e
	r.binds++
}

func (r *fakeRaw) Executor() host.Executor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exec
}

// fakeTable is a host command table seeded with known root tokens.
type fakeTable struct {
	mu   sync.Mutex
	raws map[string]*fakeRaw
}

func newFakeTable(roots ...string) *fakeTable {
	t := &fakeTable{raws: make(map[string]*fakeRaw)}
	for _, root := range roots {
		t.raws[strings.ToLower(root)] = &fakeRaw{name: root}
	}
	return t
}

func (t *fakeTable) Resolve(root string) (host.RawCommand, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	raw, ok := t.raws[strings.ToLower(root)]
	return raw, ok
}

func (t *fakeTable) raw(root string) *fakeRaw {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.raws[strings.ToLower(root)]
}

// fakeSender records messages and holds a permission set.
type fakeSender struct {
	name     string
	perms    map[string]bool
	messages []string
}

func newFakeSender(perms ...string) *fakeSender {
	s := &fakeSender{name: "tester", perms: make(map[string]bool)}
	for _, p := range perms {
		s.perms[p] = true
	}
	return s
}

func (s *fakeSender) Name() string { return s.name }

func (s *fakeSender) HasPermission(node string) bool { return s.perms[node] }

func (s *fakeSender) SendMessage(text string) { s.messages = append(s.messages, text) }

// countingRenderer tallies forwarded values.
type countingRenderer struct {
	values []any
}

func (r *countingRenderer) Send(_ host.Sender, value any) {
	r.values = append(r.values, value)
}
