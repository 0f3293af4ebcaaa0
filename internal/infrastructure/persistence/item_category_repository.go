package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemCategoryRepository implements ItemCategoryRepository using GORM
type GormItemCategoryRepository struct {
	db *gorm.DB
}

// NewGormItemCategoryRepository creates a new GormItemCategoryRepository
func NewGormItemCategoryRepository(db *gorm.DB) *GormItemCategoryRepository {
	return &GormItemCategoryRepository{db: db}
}

// FindByID finds an item category by its ID
func (r *GormItemCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ItemCategory, error) {
	var category inventory.ItemCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByName finds an item category by name, case-insensitively
func (r *GormItemCategoryRepository) FindByName(ctx context.Context, name string) (*inventory.ItemCategory, error) {
	var category inventory.ItemCategory
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll finds item categories matching the filter
func (r *GormItemCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ItemCategory, error) {
	var categories []inventory.ItemCategory
	query := r.db.WithContext(ctx).Model(&inventory.ItemCategory{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates an item category
func (r *GormItemCategoryRepository) Save(ctx context.Context, category *inventory.ItemCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes an item category
func (r *GormItemCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.ItemCategory{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts item categories matching the filter
func (r *GormItemCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.ItemCategory{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountItems counts items placed in a category
func (r *GormItemCategoryRepository) CountItems(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Item{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormItemCategoryRepository implements ItemCategoryRepository
var _ inventory.ItemCategoryRepository = (*GormItemCategoryRepository)(nil)
