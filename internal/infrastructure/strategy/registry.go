// Package strategy selects the lot allocator used by FEFO suggestions and pick list generation.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Registry holds the available allocators by name
type Registry struct {
	mu         sync.RWMutex
	allocators map[string]inventory.LotAllocator
	fallback   string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{allocators: make(map[string]inventory.LotAllocator)}
}

// Register adds an allocator. Names are unique.
func (r *Registry) Register(a inventory.LotAllocator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.allocators[a.Name()]; exists {
		return fmt.Errorf("%w: allocator %q already registered", shared.ErrAlreadyExists, a.Name())
	}
	r.allocators[a.Name()] = a
	return nil
}

// SetDefault chooses the allocator returned for an empty name
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.allocators[name]; !ok {
		return fmt.Errorf("%w: allocator %q not registered", shared.ErrNotFound, name)
	}
	r.fallback = name
	return nil
}

// Get returns the named allocator, or the default for an empty name
func (r *Registry) Get(name string) (inventory.LotAllocator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.fallback
	}
	a, ok := r.allocators[name]
	if !ok {
		return nil, fmt.Errorf("%w: allocator %q not registered", shared.ErrNotFound, name)
	}
	return a, nil
}

// Names lists registered allocators alphabetically
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.allocators))
	for n := range r.allocators {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
