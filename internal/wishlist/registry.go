package wishlist

import "sync"

// ModelRegistry holds the model type tags items may be associated with.
// Registration happens at wiring time; lookups happen per request.
type ModelRegistry struct {
	mu    sync.RWMutex
	types map[string]struct{}
}

// NewModelRegistry creates a registry pre-populated with the given types.
func NewModelRegistry(types ...string) *ModelRegistry {
	r := &ModelRegistry{types: make(map[string]struct{}, len(types))}
	for _, t := range types {
		r.Register(t)
	}
	return r
}

// Register adds a model type tag.
func (r *ModelRegistry) Register(modelType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[modelType] = struct{}{}
}

// Known reports whether the type tag is registered.
func (r *ModelRegistry) Known(modelType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[modelType]
	return ok
}
