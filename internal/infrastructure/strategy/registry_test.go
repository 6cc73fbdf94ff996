package strategy

import (
	"testing"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/strategy/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryWithDefaults(t *testing.T) {
	r, err := NewRegistryWithDefaults()
	require.NoError(t, err)

	assert.Equal(t, []string{"fefo", "fifo"}, r.Names())

	def, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "fefo", def.Name())

	fifo, err := r.Get("fifo")
	require.NoError(t, err)
	assert.Equal(t, "fifo", fifo.Name())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, r.SetDefault("fefo"), shared.ErrNotFound)

	require.NoError(t, r.Register(batch.NewFEFO()))
	assert.ErrorIs(t, r.Register(batch.NewFEFO()), shared.ErrAlreadyExists)

	_, err = r.Get("lifo")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
