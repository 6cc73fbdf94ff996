// Package tenant provides tenant scoping for GORM queries.
//
// Every tenant-owned table carries a tenant_id column. Repositories apply
// Scope to each list, count, update and delete so a query can never touch
// another tenant's rows:
//
//	db.Scopes(tenant.Scope(tenantID)).Find(&items)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTenantIDRequired is returned when a scoped query is built without a tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Column is the tenant column shared by all tenant-owned tables
const Column = "tenant_id"

// Scope filters the current table by tenant. A nil tenant aborts the query.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  tenantID,
		})
	}
}

// ScopeTable filters a joined query by the tenant column of table
func ScopeTable(table string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: table, Name: Column},
			Value:  tenantID,
		})
	}
}
