package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	// FindByID finds a recipe with its ingredients
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// FindByFinalItem finds the recipe producing a final item
	FindByFinalItem(ctx context.Context, finalItemID uuid.UUID) (*Recipe, error)

	// FindAll finds recipes matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Recipe, error)

	// Save creates or updates a recipe with its ingredients
	Save(ctx context.Context, recipe *Recipe) error

	// DeleteIngredients removes the current ingredient rows of a recipe,
	// used before re-inserting the replacement set on edit
	DeleteIngredients(ctx context.Context, recipeID uuid.UUID) error

	// Delete removes a recipe and its ingredients
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts recipes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ProductionRepository defines the interface for production persistence
type ProductionRepository interface {
	// FindByID finds a batch with its ingredients and output items
	FindByID(ctx context.Context, id uuid.UUID) (*Production, error)

	// FindByIDForUpdate finds a batch and locks its row until the
	// surrounding transaction ends, so status transitions serialize
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Production, error)

	// FindByBatchNumber finds a batch by its unique batch number
	FindByBatchNumber(ctx context.Context, batchNumber string) (*Production, error)

	// FindAll finds batches matching the filter
	FindAll(ctx context.Context, filter ProductionFilter) ([]Production, error)

	// Save creates or updates a batch with its associations
	Save(ctx context.Context, production *Production) error

	// DeleteIngredients removes the current ingredient rows of a batch
	DeleteIngredients(ctx context.Context, productionID uuid.UUID) error

	// Delete removes a batch and its associations
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts batches matching the filter
	Count(ctx context.Context, filter ProductionFilter) (int64, error)

	// CountByRecipe counts batches created from a recipe
	CountByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error)

	// CountDoneByRecipe counts completed batches created from a recipe
	CountDoneByRecipe(ctx context.Context, recipeID uuid.UUID) (int64, error)

	// ExistingSerials returns which of the given serial numbers are
	// already taken by any production item
	ExistingSerials(ctx context.Context, serials []string) ([]string, error)
}

// ProductionFilter extends shared.Filter with production-specific filters
type ProductionFilter struct {
	shared.Filter
	RecipeID    *uuid.UUID
	FinalItemID *uuid.UUID
	Status      *Status
}
