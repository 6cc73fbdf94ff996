package shared

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// EntityType names an entity kind that receives human readable display IDs
type EntityType string

const (
	EntitySalesOrder EntityType = "sales_order"
	EntityPickList   EntityType = "pick_list"
	EntityStockCount EntityType = "stock_count"
	EntityItem       EntityType = "item"
	EntityJob        EntityType = "job"
	EntityCustomer   EntityType = "customer"
)

var displayIDPrefixes = map[EntityType]string{
	EntitySalesOrder: "SO",
	EntityPickList:   "PL",
	EntityStockCount: "SC",
	EntityItem:       "ITM",
	EntityJob:        "JOB",
	EntityCustomer:   "CUS",
}

// Prefix returns the display ID prefix, empty for unknown entity types
func (e EntityType) Prefix() string {
	return displayIDPrefixes[e]
}

// FormatDisplayID renders a sequence number as PREFIX-00001. Numbers wider than five digits are kept whole.
func FormatDisplayID(entity EntityType, seq int64) string {
	return fmt.Sprintf("%s-%05d", entity.Prefix(), seq)
}

// DisplayIDGenerator hands out per-tenant sequential display IDs.
// Implementations must never return the same value twice for a tenant and entity type.
type DisplayIDGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, entity EntityType) (string, error)
}
