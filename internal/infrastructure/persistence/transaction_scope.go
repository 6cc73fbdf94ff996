package persistence

import (
	"context"

	appshared "github.com/stockroom/backend/internal/application/shared"
	"github.com/stockroom/backend/internal/domain/activity"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/job"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/tax"
	"github.com/stockroom/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// gormRepositories builds repositories on a shared handle, a transaction or the root pool
type gormRepositories struct {
	db *gorm.DB
}

// NewRepositories returns repositories bound to db
func NewRepositories(db *gorm.DB) appshared.Repositories {
	return &gormRepositories{db: db}
}

func (r *gormRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.db)
}

func (r *gormRepositories) Items() inventory.ItemRepository {
	return NewGormItemRepository(r.db)
}

func (r *gormRepositories) Folders() inventory.FolderRepository {
	return NewGormFolderRepository(r.db)
}

func (r *gormRepositories) Locations() inventory.LocationRepository {
	return NewGormLocationRepository(r.db)
}

func (r *gormRepositories) Lots() inventory.LotRepository {
	return NewGormLotRepository(r.db)
}

func (r *gormRepositories) Serials() inventory.SerialRepository {
	return NewGormSerialRepository(r.db)
}

func (r *gormRepositories) StockCounts() inventory.StockCountRepository {
	return NewGormStockCountRepository(r.db)
}

func (r *gormRepositories) SalesOrders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.db)
}

func (r *gormRepositories) PickLists() trade.PickListRepository {
	return NewGormPickListRepository(r.db)
}

func (r *gormRepositories) TaxRates() tax.Repository {
	return NewGormTaxRateRepository(r.db)
}

func (r *gormRepositories) Jobs() job.Repository {
	return NewGormJobRepository(r.db)
}

func (r *gormRepositories) Activity() activity.Repository {
	return NewGormActivityRepository(r.db)
}

func (r *gormRepositories) DisplayIDs() shared.DisplayIDGenerator {
	return NewGormDisplayIDGenerator(r.db)
}

var (
	_ appshared.TransactionScope = (*GormTransactionScope)(nil)
	_ appshared.Repositories     = (*gormRepositories)(nil)
)
