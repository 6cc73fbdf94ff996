package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := newRegistry()
	typed := &recorder{}
	wild := &recorder{}
	r.add(typed, "A", "B")
	r.add(wild)

	assert.Len(t, r.handlers("A"), 2)
	assert.Same(t, typed, r.handlers("A")[0], "typed handlers run before wildcards")
	assert.Len(t, r.handlers("C"), 1)

	snapshot := r.handlers("B")
	r.remove(typed)
	assert.Len(t, snapshot, 2, "snapshots are not affected by later removals")
	assert.Len(t, r.handlers("A"), 1)
	assert.Empty(t, r.byType)

	r.remove(wild)
	assert.Empty(t, r.handlers("A"))
}
