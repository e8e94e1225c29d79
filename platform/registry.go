package platform

import "sync"

// Operation names one remote capability a backend may offer.
type Operation string

const (
	OpPost   Operation = "post"
	OpReply  Operation = "reply"
	OpQuote  Operation = "quote"
	OpDelete Operation = "delete"
	OpSearch Operation = "search"
)

// Registry records which backend serves which operation. Backends register
// what they offer at startup; callers ask Supports instead of discovering an
// unavailable backend through a failed call.
type Registry struct {
	mu       sync.RWMutex
	backends map[Operation][]string
}

func NewRegistry() *Registry {
	return &Registry{backends: make(map[Operation][]string)}
}

func (r *Registry) Register(backend string, ops []Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		r.backends[op] = append(r.backends[op], backend)
	}
}

func (r *Registry) Supports(op Operation) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.backends[op]) > 0
}

// BackendFor returns the first backend registered for an operation,
// preserving registration order.
func (r *Registry) BackendFor(op Operation) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if names := r.backends[op]; len(names) > 0 {
		return names[0], true
	}
	return "", false
}

// Operations lists every operation with at least one backend.
func (r *Registry) Operations() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := make([]Operation, 0, len(r.backends))
	for op := range r.backends {
		ops = append(ops, op)
	}
	return ops
}
