package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/production"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductionRepository implements ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// FindByID finds a batch with its ingredients and output items
func (r *GormProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Production, error) {
	var batch production.Production
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Items").
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForUpdate finds a batch with its associations, locking the
// batch row until the surrounding transaction ends
func (r *GormProductionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.Production, error) {
	var batch production.Production
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Preload("Ingredients").
		Preload("Items").
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBatchNumber finds a batch by its unique batch number
func (r *GormProductionRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*production.Production, error) {
	var batch production.Production
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Items").
		Where("batch_number = ?", batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll finds batches matching the filter
func (r *GormProductionRepository) FindAll(ctx context.Context, filter production.ProductionFilter) ([]production.Production, error) {
	var batches []production.Production
	query := r.applyFilter(r.db.WithContext(ctx).Model(&production.Production{}), filter).
		Preload("Ingredients").
		Preload("Items")

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch with its associations
func (r *GormProductionRepository) Save(ctx context.Context, batch *production.Production) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(batch).Error
}

// DeleteIngredients removes the current ingredient rows of a batch
func (r *GormProductionRepository) DeleteIngredients(ctx context.Context, productionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&production.ProductionIngredient{}, "production_id = ?", productionID).Error
}

// Delete removes a batch and its associations
func (r *GormProductionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteIngredients(ctx, id); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Delete(&production.ProductionItem{}, "production_id = ?", id).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&production.Production{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts batches matching the filter
func (r *GormProductionRepository) Count(ctx context.Context, filter production.ProductionFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&production.Production{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByRecipe counts batches created from a recipe
func (r *GormProductionRepository) CountByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&production.Production{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountDoneByRecipe counts completed batches created from a recipe
func (r *GormProductionRepository) CountDoneByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&production.Production{}).
		Where("recipe_id = ? AND status = ?", recipeID, production.StatusDone).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistingSerials returns which of the given serial numbers are already
// taken by any production item
func (r *GormProductionRepository) ExistingSerials(ctx context.Context, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return []string{}, nil
	}

	var taken []string
	if err := r.db.WithContext(ctx).
		Model(&production.ProductionItem{}).
		Where("serial_number IN ?", serials).
		Pluck("serial_number", &taken).Error; err != nil {
		return nil, err
	}
	return taken, nil
}

// applyFilter applies filter options to the query
func (r *GormProductionRepository) applyFilter(query *gorm.DB, filter production.ProductionFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ProductionSortFields, "created_at")
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(field + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductionRepository) applyFilterWithoutPagination(query *gorm.DB, filter production.ProductionFilter) *gorm.DB {
	if filter.RecipeID != nil {
		query = query.Where("recipe_id = ?", *filter.RecipeID)
	}
	if filter.FinalItemID != nil {
		query = query.Where("final_item_id = ?", *filter.FinalItemID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("batch_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormProductionRepository implements ProductionRepository
var _ production.ProductionRepository = (*GormProductionRepository)(nil)
