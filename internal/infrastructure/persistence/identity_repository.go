package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var model models.TenantRecord
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Organization")
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a tenant by its slug
func (r *GormTenantRepository) FindBySlug(ctx context.Context, slug string) (*identity.Tenant, error) {
	var model models.TenantRecord
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", strings.ToLower(slug)).Error; err != nil {
		return nil, TranslateError(err, "Organization")
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.TenantRecordFromDomain(t)).Error, "Organization")
}

// GormProfileRepository implements identity.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds the profile of a user
func (r *GormProfileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", userID).Error; err != nil {
		return nil, TranslateError(err, "Profile")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists active members, optionally filtered by name or email
func (r *GormProfileRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, search string, limit int) ([]identity.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Model(&models.ProfileModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("is_active = ?", true)
	query = searchAny(query, search, "full_name", "email")

	var rows []models.ProfileModel
	if err := query.Order("full_name ASC, email ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	profiles := make([]identity.Profile, len(rows))
	for i := range rows {
		profiles[i] = *rows[i].ToDomain()
	}
	return profiles, nil
}

// Save creates or updates a profile
func (r *GormProfileRepository) Save(ctx context.Context, p *identity.Profile) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.ProfileModelFromDomain(p)).Error, "Profile")
}

var (
	_ identity.TenantRepository  = (*GormTenantRepository)(nil)
	_ identity.ProfileRepository = (*GormProfileRepository)(nil)
)
