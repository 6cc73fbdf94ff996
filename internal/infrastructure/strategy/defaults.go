package strategy

import "github.com/stockroom/backend/internal/infrastructure/strategy/batch"

// NewRegistryWithDefaults registers fefo and fifo with fefo as the default
func NewRegistryWithDefaults() (*Registry, error) {
	r := NewRegistry()
	fefo := batch.NewFEFO()
	if err := r.Register(fefo); err != nil {
		return nil, err
	}
	if err := r.Register(batch.NewFIFO()); err != nil {
		return nil, err
	}
	if err := r.SetDefault(fefo.Name()); err != nil {
		return nil, err
	}
	return r, nil
}
