package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Friendly messages for unique constraints, keyed by constraint name
var uniqueMessages = map[string]string{
	"tenants_slug_key":                      "A tenant with this slug already exists",
	"profiles_tenant_email_key":             "A user with this email already exists",
	"customers_tenant_code_key":             "A customer with this code already exists",
	"customers_tenant_name_key":             "A customer with this name already exists",
	"tax_rates_tenant_code_key":             "A tax rate with this code already exists",
	"locations_tenant_code_key":             "A location with this code already exists",
	"inventory_items_tenant_display_id_key": "An item with this display ID already exists",
	"inventory_items_tenant_sku_key":        "An item with this SKU already exists",
	"lots_item_lot_number_key":              "This lot number already exists for the item",
	"serials_item_serial_number_key":        "This serial number already exists for the item",
	"sales_orders_tenant_display_id_key":    "A sales order with this display ID already exists",
	"pick_lists_active_order_key":           "An active pick list already exists for this order",
	"stock_counts_tenant_display_id_key":    "A stock count with this display ID already exists",
	"jobs_tenant_display_id_key":            "A job with this display ID already exists",
}

// TranslateError maps driver errors onto domain errors. Unique violations
// become ALREADY_EXISTS and missing rows become NOT_FOUND for entity.
func TranslateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeAlreadyExists, entity+" already exists")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
			return shared.NewDomainError(shared.CodeAlreadyExists, msg)
		}
		return shared.NewDomainError(shared.CodeAlreadyExists, entity+" already exists")
	}
	// sqlite reports unique violations as plain text
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return shared.NewDomainError(shared.CodeAlreadyExists, entity+" already exists")
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return constraint == "" && err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
