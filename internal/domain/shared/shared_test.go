package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDisplayID(t *testing.T) {
	assert.Equal(t, "SO-00001", FormatDisplayID(EntitySalesOrder, 1))
	assert.Equal(t, "PL-00042", FormatDisplayID(EntityPickList, 42))
	assert.Equal(t, "ITM-123456", FormatDisplayID(EntityItem, 123456))
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewNotFoundError("Customer"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrForbidden))

	de, ok := AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, "Customer not found", de.Message)
}

func TestWrapDomainError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := WrapDomainError(CodeAlreadyExists, "exists", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "ASC"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "asc", f.OrderDir)
	assert.NotNil(t, f.Filters)

	f = Filter{Page: 3, PageSize: 10, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, 20, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
}
