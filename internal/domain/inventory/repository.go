package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ItemRepository persists items. Soft deleted items are never returned.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// FindAllForTenant supports filters: folder_id (uuid), stock_status (StockStatus), tracking_mode (TrackingMode)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Item, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Item, error)
	// FindInFolderTree returns items in the folder subtree identified by its path, all items when path is empty
	FindInFolderTree(ctx context.Context, tenantID uuid.UUID, folderPath string) ([]Item, error)
	Save(ctx context.Context, item *Item) error
	SaveWithLock(ctx context.Context, item *Item) error
}

// FolderRepository persists folders
type FolderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Folder, error)
	// FindAllForTenant lists folders; a parent_id filter (uuid or "root") limits to direct children
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Folder, error)
	Save(ctx context.Context, folder *Folder) error
	// ReplacePathPrefix rewrites descendant paths after a move
	ReplacePathPrefix(ctx context.Context, tenantID uuid.UUID, oldPrefix, newPrefix string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// CountContents returns direct subfolders and items of a folder
	CountContents(ctx context.Context, tenantID, id uuid.UUID) (folders int64, items int64, err error)
}

// LocationRepository persists locations and per-location stock
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error)
	Save(ctx context.Context, location *Location) error
	// FindStock returns the stock row, a zero-quantity row when none exists
	FindStock(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*LocationStock, error)
	FindStocksForItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]LocationStock, error)
	FindStocksAtLocation(ctx context.Context, tenantID, locationID uuid.UUID) ([]LocationStock, error)
	SaveStock(ctx context.Context, stock *LocationStock) error
	// ItemLocations lists per-location quantities with location details
	ItemLocations(ctx context.Context, tenantID, itemID uuid.UUID) ([]ItemLocation, error)
}

// LotRepository persists lots
type LotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lot, error)
	// FindByItem lists lots ordered by expiry ascending, lots without expiry last
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID) ([]Lot, error)
	Save(ctx context.Context, lot *Lot) error
}

// SerialRepository persists serials
type SerialRepository interface {
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, status SerialStatus) ([]Serial, error)
	Save(ctx context.Context, serial *Serial) error
}

// StockCountRepository persists stock counts with their lines
type StockCountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockCount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockCount, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, count *StockCount) error
	SaveWithLock(ctx context.Context, count *StockCount) error
}

// StatsReader answers aggregate read queries without loading aggregates
type StatsReader interface {
	FolderStats(ctx context.Context, tenantID uuid.UUID, folder *Folder) (*FolderStats, error)
	StockCountProgress(ctx context.Context, tenantID, countID uuid.UUID) (*StockCountProgress, error)
}

