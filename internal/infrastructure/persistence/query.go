package persistence

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paginate applies whitelisted ordering and the page window
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir, "DESC")
	return query.Order(field + " " + dir).Offset(filter.Offset()).Limit(filter.PageSize)
}

// searchAny matches the term case-insensitively against any of columns.
// LOWER/LIKE keeps the query portable between PostgreSQL and SQLite.
func searchAny(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		conds[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", c)
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// uuidFilter reads a uuid filter value given as uuid.UUID or string
func uuidFilter(v any) (uuid.UUID, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, t != uuid.Nil
	case *uuid.UUID:
		if t == nil {
			return uuid.Nil, false
		}
		return *t, *t != uuid.Nil
	case string:
		id, err := uuid.Parse(t)
		return id, err == nil
	}
	return uuid.Nil, false
}

// stringFilter reads a filter value as a string
func stringFilter(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// updateVersioned performs the optimistic update of an aggregate row. The
// model must already carry expected+1 as its version; only a row still at
// expected is written. Associations are left to the caller.
func updateVersioned(tx *gorm.DB, model any, id uuid.UUID, expected int) error {
	omit := []string{"id", "created_at", "tenant_id", "created_by", clause.Associations}
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Select("*").
		Omit(omit...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrentModification
	}
	return nil
}
