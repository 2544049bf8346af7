package dispatcher

import (
	"sync"

	"github.com/arlenmoss/herald/internal/command"
)

// Registry is the process-wide collection of live descriptors.
//
// Insertion order is preserved; the matcher relies on it for the
// first-registered-wins tie-break. Registration is additive: descriptors
// live until process teardown.
type Registry struct {
	mu          sync.RWMutex
	descriptors []*command.Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a descriptor. Descriptors are tracked by identity; adding two
// content-identical descriptors keeps both.
func (r *Registry) Add(d *command.Descriptor) {
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors = append(r.descriptors, d)
}

// Snapshot returns the descriptors in registration order. The returned
// slice is a copy; concurrent registration never tears an iteration.
func (r *Registry) Snapshot() []*command.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*command.Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Clear removes all descriptors. Intended for tests.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors = nil
}
