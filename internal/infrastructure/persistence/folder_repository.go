package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
	"github.com/stockroom/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormFolderRepository implements inventory.FolderRepository using GORM
type GormFolderRepository struct {
	db *gorm.DB
}

// NewGormFolderRepository creates a new GormFolderRepository
func NewGormFolderRepository(db *gorm.DB) *GormFolderRepository {
	return &GormFolderRepository{db: db}
}

// FindByID finds a folder by its ID
func (r *GormFolderRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Folder, error) {
	var model models.FolderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, TranslateError(err, "Folder")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists folders; parent_id limits to direct children ("root" for top level)
func (r *GormFolderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Folder, error) {
	query := r.db.WithContext(ctx).Model(&models.FolderModel{}).Scopes(tenant.Scope(tenantID))
	query = searchAny(query, filter.Search, "name")
	if v, ok := filter.Filters["parent_id"]; ok {
		if s, isStr := v.(string); isStr && s == "root" {
			query = query.Where("parent_id IS NULL")
		} else if id, ok := uuidFilter(v); ok {
			query = query.Where("parent_id = ?", id)
		}
	}
	field := ValidateSortField(filter.OrderBy, FolderSortFields, "sort_order")
	dir := ValidateSortOrder(filter.OrderDir, "ASC")

	var rows []models.FolderModel
	if err := query.Order(field + " " + dir).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	folders := make([]inventory.Folder, len(rows))
	for i := range rows {
		folders[i] = *rows[i].ToDomain()
	}
	return folders, nil
}

// Save creates or updates a folder
func (r *GormFolderRepository) Save(ctx context.Context, folder *inventory.Folder) error {
	return TranslateError(r.db.WithContext(ctx).Save(models.FolderModelFromDomain(folder)).Error, "Folder")
}

// ReplacePathPrefix rewrites the paths of a moved subtree
func (r *GormFolderRepository) ReplacePathPrefix(ctx context.Context, tenantID uuid.UUID, oldPrefix, newPrefix string) error {
	if oldPrefix == "" || oldPrefix == newPrefix {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.FolderModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("path LIKE ?", oldPrefix+"%").
		Update("path", gorm.Expr("? || SUBSTR(path, ?)", newPrefix, len(oldPrefix)+1)).Error
}

// Delete removes a folder
func (r *GormFolderRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Delete(&models.FolderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Folder")
	}
	return nil
}

// CountContents returns the number of direct subfolders and live items of a folder
func (r *GormFolderRepository) CountContents(ctx context.Context, tenantID, id uuid.UUID) (int64, int64, error) {
	var folders, items int64
	if err := r.db.WithContext(ctx).Model(&models.FolderModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("parent_id = ?", id).
		Count(&folders).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("folder_id = ? AND deleted_at IS NULL", id).
		Count(&items).Error; err != nil {
		return 0, 0, err
	}
	return folders, items, nil
}

var _ inventory.FolderRepository = (*GormFolderRepository)(nil)
