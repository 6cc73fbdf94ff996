package event

import (
	"sync"

	"github.com/stockroom/backend/internal/domain/shared"
)

// registry maps event types to handlers. Handlers registered without types receive everything.
type registry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

func newRegistry() *registry {
	return &registry{byType: make(map[string][]shared.EventHandler)}
}

func (r *registry) add(h shared.EventHandler, types ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(types) == 0 {
		r.wildcard = append(r.wildcard, h)
		return
	}
	for _, t := range types {
		r.byType[t] = append(r.byType[t], h)
	}
}

func (r *registry) remove(h shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wildcard = without(r.wildcard, h)
	for t, hs := range r.byType {
		if hs = without(hs, h); len(hs) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = hs
		}
	}
}

// handlers returns a snapshot, typed handlers first
func (r *registry) handlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typed := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(r.wildcard))
	out = append(out, typed...)
	return append(out, r.wildcard...)
}

func without(hs []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := hs[:0:0]
	for _, h := range hs {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
