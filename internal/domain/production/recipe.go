package production

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// RecipeIngredient is one raw material line of a recipe, quantified
// per unit of output
type RecipeIngredient struct {
	shared.BaseEntity
	RecipeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// IngredientLine is the input for one recipe or production ingredient
type IngredientLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// Recipe is the blueprint for manufacturing one final item. A final
// item has at most one recipe; productions copy the ingredient list at
// creation so later recipe edits never touch running batches.
type Recipe struct {
	shared.BaseAggregateRoot
	FinalItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Description *string   `gorm:"type:varchar(1000)"`
	CreatedByID *uuid.UUID `gorm:"type:uuid"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// validateIngredientLines checks a shared rule set: at least one line,
// positive quantities, no duplicates, and no self-reference on the
// produced item.
func validateIngredientLines(lines []IngredientLine, finalItemID uuid.UUID) error {
	if len(lines) == 0 {
		return shared.ErrInvalidInput.WithMessage("At least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.ItemID == uuid.Nil {
			return shared.ErrInvalidInput.WithMessage("Ingredient requires an item")
		}
		if line.ItemID == finalItemID {
			return shared.ErrInvalidInput.WithMessage("The produced item cannot be its own ingredient")
		}
		if !line.Quantity.IsPositive() {
			return shared.ErrInvalidInput.WithMessage("Ingredient quantity must be positive")
		}
		if _, dup := seen[line.ItemID]; dup {
			return shared.ErrInvalidInput.WithMessage("Duplicate ingredient item")
		}
		seen[line.ItemID] = struct{}{}
	}
	return nil
}

// NewRecipe creates a recipe for a final item
func NewRecipe(finalItemID uuid.UUID, lines []IngredientLine) (*Recipe, error) {
	if finalItemID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Recipe requires a final item")
	}
	if err := validateIngredientLines(lines, finalItemID); err != nil {
		return nil, err
	}

	recipe := &Recipe{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FinalItemID:       finalItemID,
	}
	recipe.Ingredients = buildRecipeIngredients(recipe.ID, lines)
	return recipe, nil
}

func buildRecipeIngredients(recipeID uuid.UUID, lines []IngredientLine) []RecipeIngredient {
	ingredients := make([]RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, RecipeIngredient{
			BaseEntity: shared.NewBaseEntity(),
			RecipeID:   recipeID,
			ItemID:     line.ItemID,
			Quantity:   line.Quantity,
		})
	}
	return ingredients
}

// WithDescription sets the free-form description
func (r *Recipe) WithDescription(description string) *Recipe {
	r.Description = &description
	return r
}

// WithCreatedBy records the admin who created the recipe
func (r *Recipe) WithCreatedBy(adminID uuid.UUID) *Recipe {
	r.CreatedByID = &adminID
	return r
}

// ReplaceIngredients swaps the ingredient list. The service layer
// forbids this once a production using the recipe is DONE.
func (r *Recipe) ReplaceIngredients(lines []IngredientLine) error {
	if err := validateIngredientLines(lines, r.FinalItemID); err != nil {
		return err
	}
	r.Ingredients = buildRecipeIngredients(r.ID, lines)
	return nil
}
