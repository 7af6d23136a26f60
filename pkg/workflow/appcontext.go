package workflow

import (
	"sort"
	"sync"
)

// AppContext indexes bound engines by the id of their root node, letting
// nested trees reach each other.
type AppContext struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

// NewAppContext returns an empty context.
func NewAppContext() *AppContext {
	return &AppContext{engines: make(map[string]*Engine)}
}

// Engine returns the engine bound under id.
func (a *AppContext) Engine(id string) (*Engine, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	engine, ok := a.engines[id]
	return engine, ok
}

// IDs returns the registered ids, sorted.
func (a *AppContext) IDs() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ids := make([]string, 0, len(a.engines))
	for id := range a.engines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *AppContext) register(id string, engine *Engine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engines[id] = engine
}

func (a *AppContext) unregister(id string, engine *Engine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if current, ok := a.engines[id]; ok && current == engine {
		delete(a.engines, id)
	}
}
