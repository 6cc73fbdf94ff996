package models

import (
	"time"

	"github.com/google/uuid"
)

// DisplayIDSequenceModel holds the next display number per tenant and entity type
type DisplayIDSequenceModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityType string    `gorm:"type:varchar(40);primaryKey"`
	NextValue  int64     `gorm:"not null;default:1"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DisplayIDSequenceModel) TableName() string {
	return "display_id_sequences"
}

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&TenantRecord{},
		&ProfileModel{},
		&DisplayIDSequenceModel{},
		&ActivityLogModel{},
		&CustomerModel{},
		&TaxRateModel{},
		&FolderModel{},
		&LocationModel{},
		&ItemModel{},
		&LocationStockModel{},
		&LotModel{},
		&SerialModel{},
		&StockCountModel{},
		&StockCountLineModel{},
		&SalesOrderModel{},
		&SalesOrderItemModel{},
		&LineItemTaxModel{},
		&PickListModel{},
		&PickListLineModel{},
		&JobModel{},
	}
}
