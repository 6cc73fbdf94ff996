package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Folder groups items in a tree. Path is the materialized list of
// ancestor IDs including the folder itself, e.g. "/<root>/<child>/".
type Folder struct {
	shared.TenantAggregateRoot
	Name      string
	ParentID  *uuid.UUID
	Path      string
	Color     string
	SortOrder int
}

// NewFolder creates a folder under parent, or at the root when parent is nil
func NewFolder(tenantID uuid.UUID, name string, parent *Folder) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Folder name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("Folder name cannot exceed 100 characters")
	}
	f := &Folder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
	}
	if parent != nil {
		if parent.TenantID != tenantID {
			return nil, shared.NewNotFoundError("Parent folder")
		}
		f.ParentID = &parent.ID
	}
	f.Path = childPath(parent, f.ID)
	return f, nil
}

func childPath(parent *Folder, id uuid.UUID) string {
	if parent == nil {
		return "/" + id.String() + "/"
	}
	return parent.Path + id.String() + "/"
}

// Rename changes the folder name
func (f *Folder) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Folder name is required")
	}
	f.Name = name
	f.Touch()
	return nil
}

// SetAppearance sets color and sort order
func (f *Folder) SetAppearance(color string, sortOrder int) {
	f.Color = strings.TrimSpace(color)
	f.SortOrder = sortOrder
	f.Touch()
}

// IsAncestorOf reports whether other lies in this folder's subtree (itself included)
func (f *Folder) IsAncestorOf(other *Folder) bool {
	return other != nil && strings.HasPrefix(other.Path, f.Path)
}

// MoveTo re-parents the folder and returns the previous path so the
// caller can rewrite descendant paths. Moving into its own subtree is refused.
func (f *Folder) MoveTo(parent *Folder) (string, error) {
	if parent != nil && f.IsAncestorOf(parent) {
		return "", shared.NewValidationError("Cannot move a folder into itself or one of its subfolders")
	}
	old := f.Path
	if parent == nil {
		f.ParentID = nil
	} else {
		f.ParentID = &parent.ID
	}
	f.Path = childPath(parent, f.ID)
	f.Touch()
	return old, nil
}

// Depth returns 1 for root folders
func (f *Folder) Depth() int {
	return strings.Count(strings.Trim(f.Path, "/"), "/") + 1
}

// FolderStats aggregates the items of a folder subtree
type FolderStats struct {
	FolderID        uuid.UUID       `json:"folder_id" db:"folder_id"`
	ItemCount       int64           `json:"item_count" db:"item_count"`
	TotalQuantity   decimal.Decimal `json:"total_quantity" db:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value" db:"total_value"`
	LowStockCount   int64           `json:"low_stock_count" db:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count" db:"out_of_stock_count"`
	SubfolderCount  int64           `json:"subfolder_count" db:"subfolder_count"`
}
