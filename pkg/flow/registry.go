package flow

import "sync"

// Registry tracks the live flows of one session.
type Registry struct {
	mu    sync.Mutex
	flows map[string]*Flow
}

func NewRegistry() *Registry {
	return &Registry{flows: map[string]*Flow{}}
}

func (r *Registry) Add(f *Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[f.ID()] = f
}

func (r *Registry) Get(id string) (*Flow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flows[id]
	return f, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	f, ok := r.flows[id]
	delete(r.flows, id)
	r.mu.Unlock()
	if ok {
		f.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Clear drops every flow, used on logout.
func (r *Registry) Clear() {
	r.mu.Lock()
	flows := r.flows
	r.flows = map[string]*Flow{}
	r.mu.Unlock()
	for _, f := range flows {
		f.Close()
	}
}
