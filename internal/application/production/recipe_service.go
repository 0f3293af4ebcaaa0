package production

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/production"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// RecipeService manages manufacturing recipes. A recipe binds one final
// item to the raw materials consumed per unit of output.
type RecipeService struct {
	scope          TransactionScope
	recipeRepo     production.RecipeRepository
	productionRepo production.ProductionRepository
	itemRepo       inventory.ItemRepository
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	scope TransactionScope,
	recipeRepo production.RecipeRepository,
	productionRepo production.ProductionRepository,
	itemRepo inventory.ItemRepository,
) *RecipeService {
	return &RecipeService{
		scope:          scope,
		recipeRepo:     recipeRepo,
		productionRepo: productionRepo,
		itemRepo:       itemRepo,
	}
}

// IngredientLineRequest is one ingredient of a recipe or batch request
type IngredientLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateRecipeRequest represents a request to create a recipe
type CreateRecipeRequest struct {
	FinalItemID uuid.UUID               `json:"final_item_id" binding:"required"`
	Ingredients []IngredientLineRequest `json:"ingredients" binding:"required,min=1,dive"`
	Description *string                 `json:"description"`
	CreatedBy   *uuid.UUID              `json:"-"`
}

// UpdateRecipeRequest replaces the ingredient list of a recipe
type UpdateRecipeRequest struct {
	Ingredients []IngredientLineRequest `json:"ingredients" binding:"required,min=1,dive"`
	Description *string                 `json:"description"`
}

// RecipeIngredientResponse represents a recipe ingredient in API responses
type RecipeIngredientResponse struct {
	ID       uuid.UUID       `json:"id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecipeResponse represents a recipe in API responses
type RecipeResponse struct {
	ID          uuid.UUID                  `json:"id"`
	FinalItemID uuid.UUID                  `json:"final_item_id"`
	Description *string                    `json:"description,omitempty"`
	Ingredients []RecipeIngredientResponse `json:"ingredients"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// IngredientCost is the costing of one recipe line at current prices
type IngredientCost struct {
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	Cost     decimal.Decimal `json:"cost"`
}

// RecipeCostResponse breaks down what one unit of output costs at
// current average prices
type RecipeCostResponse struct {
	RecipeID    uuid.UUID        `json:"recipe_id"`
	FinalItemID uuid.UUID        `json:"final_item_id"`
	Ingredients []IngredientCost `json:"ingredients"`
	CostPerUnit decimal.Decimal  `json:"cost_per_unit"`
}

// validateIngredientItems checks that every referenced item exists and
// is a raw material
func validateIngredientItems(ctx context.Context, itemRepo inventory.ItemRepository, lines []IngredientLineRequest) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	items, err := itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*inventory.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, line := range lines {
		item, ok := byID[line.ItemID]
		if !ok {
			return shared.ErrNotFound.WithMessage("Ingredient item not found")
		}
		if item.Type != inventory.ItemRaw {
			return shared.ErrInvalidInput.WithMessage("Ingredients must be raw materials")
		}
	}
	return nil
}

// toIngredientLines maps request lines to domain ingredient lines
func toIngredientLines(lines []IngredientLineRequest) []production.IngredientLine {
	domainLines := make([]production.IngredientLine, 0, len(lines))
	for _, line := range lines {
		domainLines = append(domainLines, production.IngredientLine{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
		})
	}
	return domainLines
}

// CreateRecipe creates a recipe. The final item must be a manufactured
// good without an existing recipe, and every ingredient a raw material.
func (s *RecipeService) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (*RecipeResponse, error) {
	finalItem, err := s.itemRepo.FindByID(ctx, req.FinalItemID)
	if err != nil {
		return nil, err
	}
	if finalItem.Type != inventory.ItemFinal {
		return nil, shared.ErrInvalidInput.WithMessage("Recipes can only produce final items")
	}

	existing, err := s.recipeRepo.FindByFinalItem(ctx, req.FinalItemID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("This item already has a recipe")
	}

	if err := validateIngredientItems(ctx, s.itemRepo, req.Ingredients); err != nil {
		return nil, err
	}

	recipe, err := production.NewRecipe(req.FinalItemID, toIngredientLines(req.Ingredients))
	if err != nil {
		return nil, err
	}
	if req.Description != nil {
		recipe.WithDescription(*req.Description)
	}
	if req.CreatedBy != nil {
		recipe.WithCreatedBy(*req.CreatedBy)
	}

	if err := s.recipeRepo.Save(ctx, recipe); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// GetRecipe returns a single recipe with its ingredients
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// ListRecipes returns recipes matching the filter
func (s *RecipeService) ListRecipes(ctx context.Context, filter shared.Filter) (*shared.Paginated[RecipeResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	recipes, err := s.recipeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.recipeRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		responses = append(responses, *toRecipeResponse(&recipes[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateRecipe replaces the ingredient list. Once a batch built from
// the recipe has completed, the recipe is frozen as a cost record.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req UpdateRecipeRequest) (*RecipeResponse, error) {
	var updated *production.Recipe
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		recipe, err := repos.RecipeRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		doneCount, err := repos.ProductionRepo().CountDoneByRecipe(ctx, id)
		if err != nil {
			return err
		}
		if doneCount > 0 {
			return shared.ErrConflict.WithMessage("Recipes with completed productions cannot be edited")
		}

		if err := validateIngredientItems(ctx, repos.ItemRepo(), req.Ingredients); err != nil {
			return err
		}
		if err := recipe.ReplaceIngredients(toIngredientLines(req.Ingredients)); err != nil {
			return err
		}
		if req.Description != nil {
			recipe.WithDescription(*req.Description)
		}

		if err := repos.RecipeRepo().DeleteIngredients(ctx, id); err != nil {
			return err
		}
		if err := repos.RecipeRepo().Save(ctx, recipe); err != nil {
			return err
		}
		updated = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(updated), nil
}

// DeleteRecipe removes a recipe that no production batch references
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.RecipeRepo().FindByID(ctx, id); err != nil {
			return err
		}

		count, err := repos.ProductionRepo().CountByRecipe(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrConflict.WithMessage("Recipes referenced by productions cannot be deleted")
		}

		return repos.RecipeRepo().Delete(ctx, id)
	})
}

// GetCostBreakdown prices one unit of output at the current average
// price of each ingredient
func (s *RecipeService) GetCostBreakdown(ctx context.Context, id uuid.UUID) (*RecipeCostResponse, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ids = append(ids, ing.ItemID)
	}
	items, err := s.itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	response := &RecipeCostResponse{
		RecipeID:    recipe.ID,
		FinalItemID: recipe.FinalItemID,
		Ingredients: make([]IngredientCost, 0, len(recipe.Ingredients)),
		CostPerUnit: decimal.Zero,
	}
	for _, ing := range recipe.Ingredients {
		cost := IngredientCost{
			ItemID:   ing.ItemID,
			Quantity: ing.Quantity,
		}
		if item, ok := byID[ing.ItemID]; ok {
			cost.ItemName = item.Name
			cost.AvgPrice = item.AvgPrice
			cost.Cost = ing.Quantity.Mul(item.AvgPrice)
		}
		response.CostPerUnit = response.CostPerUnit.Add(cost.Cost)
		response.Ingredients = append(response.Ingredients, cost)
	}
	response.CostPerUnit = response.CostPerUnit.Round(4)
	return response, nil
}

// toRecipeResponse maps a domain recipe to its response shape
func toRecipeResponse(recipe *production.Recipe) *RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:       ing.ID,
			ItemID:   ing.ItemID,
			Quantity: ing.Quantity,
		})
	}
	return &RecipeResponse{
		ID:          recipe.ID,
		FinalItemID: recipe.FinalItemID,
		Description: recipe.Description,
		Ingredients: ingredients,
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
}
