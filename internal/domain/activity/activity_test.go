package activity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewLog(t *testing.T) {
	l := NewLog(uuid.New(), nil, "Customer", uuid.New(), "Acme", ActionCreated, nil)
	assert.Equal(t, "customer", l.EntityType)
	assert.NotNil(t, l.Changes)
	assert.Nil(t, l.UserID)
}

func TestQuery_Normalize(t *testing.T) {
	assert.Equal(t, 50, Query{}.Normalize().Limit)
	assert.Equal(t, 200, Query{Limit: 1000}.Normalize().Limit)
	assert.Equal(t, 0, Query{Offset: -3}.Normalize().Offset)
}
