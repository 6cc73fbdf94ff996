package models

import (
	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
)

// TenantRecord is the persistence model for identity.Tenant
type TenantRecord struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Slug     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status   string `gorm:"type:varchar(20);not null;default:'active'"`
	Currency string `gorm:"type:varchar(3);not null;default:'USD'"`
}

// TableName returns the table name for GORM
func (TenantRecord) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain Tenant
func (m *TenantRecord) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		Name:     m.Name,
		Slug:     m.Slug,
		Status:   identity.TenantStatus(m.Status),
		Currency: m.Currency,
	}
	t.BaseEntity = m.BaseModel.ToDomain()
	t.Version = m.Version
	return t
}

// TenantRecordFromDomain converts a domain Tenant to the model
func TenantRecordFromDomain(t *identity.Tenant) *TenantRecord {
	m := &TenantRecord{
		Name:     t.Name,
		Slug:     t.Slug,
		Status:   string(t.Status),
		Currency: t.Currency,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// ProfileModel is the persistence model for identity.Profile
type ProfileModel struct {
	BaseModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Email    string    `gorm:"type:varchar(255);not null"`
	FullName string    `gorm:"type:varchar(200);not null;default:''"`
	Role     string    `gorm:"type:varchar(20);not null;default:'member'"`
	IsActive bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the model to a domain Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Email:      m.Email,
		FullName:   m.FullName,
		Role:       identity.Role(m.Role),
		IsActive:   m.IsActive,
	}
}

// ProfileModelFromDomain converts a domain Profile to the model
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	m := &ProfileModel{
		TenantID: p.TenantID,
		Email:    p.Email,
		FullName: p.FullName,
		Role:     string(p.Role),
		IsActive: p.IsActive,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
