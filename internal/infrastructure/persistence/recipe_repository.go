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

// GormRecipeRepository implements RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByID finds a recipe with its ingredients
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Recipe, error) {
	var recipe production.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// FindByFinalItem finds the recipe producing a final item
func (r *GormRecipeRepository) FindByFinalItem(ctx context.Context, finalItemID uuid.UUID) (*production.Recipe, error) {
	var recipe production.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Where("final_item_id = ?", finalItemID).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// FindAll finds recipes matching the filter
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.Recipe, error) {
	var recipes []production.Recipe
	query := r.applyFilter(r.db.WithContext(ctx).Model(&production.Recipe{}), filter).
		Preload("Ingredients")

	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Save creates or updates a recipe with its ingredients
func (r *GormRecipeRepository) Save(ctx context.Context, recipe *production.Recipe) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(recipe).Error
}

// DeleteIngredients removes the current ingredient rows of a recipe
func (r *GormRecipeRepository) DeleteIngredients(ctx context.Context, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&production.RecipeIngredient{}, "recipe_id = ?", recipeID).Error
}

// Delete removes a recipe and its ingredients
func (r *GormRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteIngredients(ctx, id); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&production.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts recipes matching the filter
func (r *GormRecipeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&production.Recipe{})
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormRecipeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, RecipeSortFields, "created_at")
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

// Ensure GormRecipeRepository implements RecipeRepository
var _ production.RecipeRepository = (*GormRecipeRepository)(nil)
