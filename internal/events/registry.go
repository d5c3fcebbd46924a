package events

import "sync"

// Handle is anything a registry can release.
type Handle interface {
	Close()
}

// Registry maps channel names to open subscriptions for one owner (a screen
// controller). Registering a name twice closes the earlier handle.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Handle)}
}

// Register stores h under name. If name was taken, the previous handle is
// closed and replaced is true.
func (r *Registry) Register(name string, h Handle) (replaced bool) {
	r.mu.Lock()
	prev, ok := r.entries[name]
	r.entries[name] = h
	r.mu.Unlock()

	if ok && prev != h {
		prev.Close()
		return true
	}
	return false
}

// Release closes and removes the handle registered under name. It is a no-op
// when name is unknown.
func (r *Registry) Release(name string) bool {
	r.mu.Lock()
	h, ok := r.entries[name]
	delete(r.entries, name)
	r.mu.Unlock()

	if ok {
		h.Close()
	}
	return ok
}

// ReleaseAll closes every registered handle.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	handles := make([]Handle, 0, len(r.entries))
	for name, h := range r.entries {
		handles = append(handles, h)
		delete(r.entries, name)
	}
	r.mu.Unlock()

	for _, h := range handles {
		h.Close()
	}
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Subscribe opens a subscription through feed and registers it under name.
func (r *Registry) Subscribe(feed Feed, name, table string, filter *Filter) (*Subscription, error) {
	sub, err := feed.Subscribe(name, table, filter)
	if err != nil {
		return nil, err
	}
	r.Register(name, sub)
	return sub, nil
}
