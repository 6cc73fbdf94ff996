package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns defaultDir when the input is empty or invalid.
func ValidateSortOrder(orderDir, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return defaultDir
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"email":      true,
	"is_active":  true,
}

// ItemSortFields contains allowed sort fields for inventory items
var ItemSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"display_id":   true,
	"name":         true,
	"sku":          true,
	"quantity":     true,
	"min_quantity": true,
	"price":        true,
}

// FolderSortFields contains allowed sort fields for folders
var FolderSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"sort_order": true,
}

// LocationSortFields contains allowed sort fields for locations
var LocationSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"code":       true,
	"type":       true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"display_id":    true,
	"order_date":    true,
	"customer_name": true,
	"status":        true,
	"total":         true,
}

// StockCountSortFields contains allowed sort fields for stock counts
var StockCountSortFields = map[string]bool{
	"created_at": true,
	"display_id": true,
	"name":       true,
	"status":     true,
}

// JobSortFields contains allowed sort fields for jobs
var JobSortFields = map[string]bool{
	"created_at": true,
	"display_id": true,
	"name":       true,
	"status":     true,
	"due_date":   true,
	"start_date": true,
}
