package workflow

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Registry maps workflow-type names to their handlers. Handlers are
// registered once at startup; resolution is read-mostly and safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a workflow-type name. Re-registering a name
// replaces the previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		log.Printf("[workflow] replacing handler for type %s", name)
	}
	r.handlers[name] = h
}

// Resolve returns the handler for a workflow-type name, or
// ErrUnknownWorkflowType wrapped with the name and the registered types.
func (r *Registry) Resolve(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownWorkflowType, name, r.typesLocked())
	}
	return h, nil
}

// Types returns the registered workflow-type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typesLocked()
}

func (r *Registry) typesLocked() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
