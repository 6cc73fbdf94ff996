// Package shared holds application-level contracts used by several services.
package shared

import (
	"context"

	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/job"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
)

// TransactionScope runs a unit of work atomically. If fn returns an error
// the transaction is rolled back, otherwise it is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to repositories that share one transaction
type Repositories interface {
	Customers() partner.CustomerRepository
	Items() inventory.ItemRepository
	Folders() inventory.FolderRepository
	Locations() inventory.LocationRepository
	Lots() inventory.LotRepository
	Serials() inventory.SerialRepository
	StockCounts() inventory.StockCountRepository
	SalesOrders() trade.SalesOrderRepository
	PickLists() trade.PickListRepository
	TaxRates() tax.Repository
	Jobs() job.Repository
	Activity() activity.Repository
	DisplayIDs() shared.DisplayIDGenerator
}
