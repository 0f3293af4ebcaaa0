package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/production"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// ProductionService drives the batch lifecycle. A draft batch can be
// checked for feasibility and re-planned freely; starting it consumes
// raw materials and completing it receives serialized finished goods,
// each step atomic with its stock movements.
type ProductionService struct {
	scope          TransactionScope
	productionRepo production.ProductionRepository
	recipeRepo     production.RecipeRepository
	itemRepo       inventory.ItemRepository
}

// NewProductionService creates a new production service
func NewProductionService(
	scope TransactionScope,
	productionRepo production.ProductionRepository,
	recipeRepo production.RecipeRepository,
	itemRepo inventory.ItemRepository,
) *ProductionService {
	return &ProductionService{
		scope:          scope,
		productionRepo: productionRepo,
		recipeRepo:     recipeRepo,
		itemRepo:       itemRepo,
	}
}

// CreateProductionRequest represents a request to plan a batch
type CreateProductionRequest struct {
	BatchNumber string          `json:"batch_number" binding:"required"`
	RecipeID    uuid.UUID       `json:"recipe_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Notes       *string         `json:"notes"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// UpdateNotesRequest changes the free-form notes of a draft batch
type UpdateNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// UpdateIngredientsRequest replaces the batch ingredient list
type UpdateIngredientsRequest struct {
	Ingredients []IngredientLineRequest `json:"ingredients" binding:"required,min=1,dive"`
}

// CompleteProductionRequest finishes a batch with one serial per unit
type CompleteProductionRequest struct {
	Serials        []string  `json:"serials" binding:"required,min=1"`
	CompletionDate time.Time `json:"completion_date"`
}

// ProductionIngredientResponse represents a batch ingredient in API responses
type ProductionIngredientResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	IsFromRecipe bool            `json:"is_from_recipe"`
}

// ProductionItemResponse represents one serialized output unit
type ProductionItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	SerialNumber string          `json:"serial_number"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	IsSold       bool            `json:"is_sold"`
}

// ProductionResponse represents a production batch in API responses
type ProductionResponse struct {
	ID             uuid.UUID                      `json:"id"`
	BatchNumber    string                         `json:"batch_number"`
	RecipeID       uuid.UUID                      `json:"recipe_id"`
	FinalItemID    uuid.UUID                      `json:"final_item_id"`
	Quantity       decimal.Decimal                `json:"quantity"`
	Status         string                         `json:"status"`
	TotalCost      decimal.Decimal                `json:"total_cost"`
	CostPerUnit    decimal.Decimal                `json:"cost_per_unit"`
	Notes          *string                        `json:"notes,omitempty"`
	StartDate      *time.Time                     `json:"start_date,omitempty"`
	CompletionDate *time.Time                     `json:"completion_date,omitempty"`
	Ingredients    []ProductionIngredientResponse `json:"ingredients"`
	Items          []ProductionItemResponse       `json:"items,omitempty"`
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`
}

// CreateProduction plans a DRAFT batch from a recipe. Batch numbers are
// chosen by the caller and must be unique.
func (s *ProductionService) CreateProduction(ctx context.Context, req CreateProductionRequest) (*ProductionResponse, error) {
	existing, err := s.productionRepo.FindByBatchNumber(ctx, req.BatchNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("A batch with this number already exists")
	}

	recipe, err := s.recipeRepo.FindByID(ctx, req.RecipeID)
	if err != nil {
		return nil, err
	}

	batch, err := production.NewProduction(req.BatchNumber, recipe, req.Quantity)
	if err != nil {
		return nil, err
	}
	if req.Notes != nil {
		batch.WithNotes(*req.Notes)
	}
	if req.CreatedBy != nil {
		batch.WithCreatedBy(*req.CreatedBy)
	}

	if err := s.productionRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	return toProductionResponse(batch), nil
}

// GetProduction returns a single batch with ingredients and output
func (s *ProductionService) GetProduction(ctx context.Context, id uuid.UUID) (*ProductionResponse, error) {
	batch, err := s.productionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductionResponse(batch), nil
}

// ListProductions returns batches matching the filter
func (s *ProductionService) ListProductions(ctx context.Context, filter production.ProductionFilter) (*shared.Paginated[ProductionResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	batches, err := s.productionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductionResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, *toProductionResponse(&batches[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateNotes changes the notes of a draft batch
func (s *ProductionService) UpdateNotes(ctx context.Context, id uuid.UUID, req UpdateNotesRequest) (*ProductionResponse, error) {
	batch, err := s.productionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := batch.UpdateNotes(req.Notes); err != nil {
		return nil, err
	}
	if err := s.productionRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	return toProductionResponse(batch), nil
}

// UpdateIngredients replaces the batch ingredient list with a
// batch-local set, allowed until the batch is done
func (s *ProductionService) UpdateIngredients(ctx context.Context, id uuid.UUID, req UpdateIngredientsRequest) (*ProductionResponse, error) {
	var updated *production.Production
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.ProductionRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := validateIngredientItems(ctx, repos.ItemRepo(), req.Ingredients); err != nil {
			return err
		}
		if err := batch.ReplaceIngredients(toIngredientLines(req.Ingredients)); err != nil {
			return err
		}

		if err := repos.ProductionRepo().DeleteIngredients(ctx, id); err != nil {
			return err
		}
		if err := repos.ProductionRepo().Save(ctx, batch); err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductionResponse(updated), nil
}

// GetFeasibility dry-runs a batch against current stock without
// touching anything
func (s *ProductionService) GetFeasibility(ctx context.Context, id uuid.UUID) (*production.FeasibilityReport, error) {
	batch, err := s.productionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stock, err := loadStockViews(ctx, s.itemRepo, batch)
	if err != nil {
		return nil, err
	}
	return production.ComputeFeasibility(batch, stock), nil
}

// StartProduction moves a draft batch into process, consuming
// quantity * batch size of every ingredient. The feasibility check is
// repeated inside the transaction so concurrent consumers cannot
// oversubscribe the same stock.
func (s *ProductionService) StartProduction(ctx context.Context, id uuid.UUID, startDate time.Time) (*ProductionResponse, error) {
	var started *production.Production
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.ProductionRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		stock, err := loadStockViews(ctx, repos.ItemRepo(), batch)
		if err != nil {
			return err
		}
		report := production.ComputeFeasibility(batch, stock)
		if !report.Feasible {
			return shared.ErrInsufficientStock.
				WithMessage("Not enough stock to start this batch").
				WithDetails(report)
		}

		if err := batch.Start(startDate); err != nil {
			return err
		}

		for _, ing := range batch.Ingredients {
			item, err := repos.ItemRepo().FindByIDForUpdate(ctx, ing.ItemID)
			if err != nil {
				return err
			}
			required := batch.RequiredQuantity(ing)
			quantityBefore := item.Quantity
			if err := item.RemoveStock(required); err != nil {
				return err
			}
			if err := repos.ItemRepo().Save(ctx, item); err != nil {
				return err
			}

			adjustment, err := inventory.NewStockAdjustment(
				item.ID,
				required.Neg(),
				quantityBefore,
				item.AvgPrice,
				fmt.Sprintf("Consumed by production batch %s", batch.BatchNumber),
			)
			if err != nil {
				return err
			}
			adjustment.WithProduction(batch.ID)
			if batch.CreatedByID != nil {
				adjustment.WithCreatedBy(*batch.CreatedByID)
			}
			if err := repos.AdjustmentRepo().Create(ctx, adjustment); err != nil {
				return err
			}
		}

		if err := repos.ProductionRepo().Save(ctx, batch); err != nil {
			return err
		}
		started = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductionResponse(started), nil
}

// CompleteProduction finishes a batch: the per-unit cost is computed
// from the ingredient average prices, each output unit gets a serial
// and the finished item receives the quantity at that cost
func (s *ProductionService) CompleteProduction(ctx context.Context, id uuid.UUID, req CompleteProductionRequest) (*ProductionResponse, error) {
	completionDate := req.CompletionDate
	if completionDate.IsZero() {
		completionDate = time.Now()
	}

	var completed *production.Production
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.ProductionRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		normalized, err := batch.ValidateSerials(req.Serials)
		if err != nil {
			return err
		}
		taken, err := repos.ProductionRepo().ExistingSerials(ctx, normalized)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return shared.ErrConflict.
				WithMessage("Serial numbers are already in use").
				WithDetails(taken)
		}

		costPerUnit, err := computeBatchCostPerUnit(ctx, repos.ItemRepo(), batch)
		if err != nil {
			return err
		}
		if err := batch.Complete(normalized, costPerUnit, completionDate); err != nil {
			return err
		}

		finalItem, err := repos.ItemRepo().FindByIDForUpdate(ctx, batch.FinalItemID)
		if err != nil {
			return err
		}
		quantityBefore := finalItem.Quantity
		if err := finalItem.ReceiveAtCost(batch.Quantity, batch.CostPerUnit); err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, finalItem); err != nil {
			return err
		}

		adjustment, err := inventory.NewStockAdjustment(
			finalItem.ID,
			batch.Quantity,
			quantityBefore,
			finalItem.AvgPrice,
			fmt.Sprintf("Produced by batch %s", batch.BatchNumber),
		)
		if err != nil {
			return err
		}
		adjustment.WithProduction(batch.ID)
		if batch.CreatedByID != nil {
			adjustment.WithCreatedBy(*batch.CreatedByID)
		}
		if err := repos.AdjustmentRepo().Create(ctx, adjustment); err != nil {
			return err
		}

		if err := repos.ProductionRepo().Save(ctx, batch); err != nil {
			return err
		}
		completed = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductionResponse(completed), nil
}

// DeleteProduction removes a draft batch. Started batches already
// consumed stock and stay as history.
func (s *ProductionService) DeleteProduction(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.ProductionRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !batch.CanDelete() {
			return shared.ErrInvalidState.WithMessage("Only draft batches can be deleted")
		}
		return repos.ProductionRepo().Delete(ctx, id)
	})
}

// loadStockViews snapshots the stock of every batch ingredient
func loadStockViews(ctx context.Context, itemRepo inventory.ItemRepository, batch *production.Production) (map[uuid.UUID]production.StockView, error) {
	ids := make([]uuid.UUID, 0, len(batch.Ingredients))
	for _, ing := range batch.Ingredients {
		ids = append(ids, ing.ItemID)
	}
	items, err := itemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	stock := make(map[uuid.UUID]production.StockView, len(items))
	for _, item := range items {
		stock[item.ID] = production.StockView{
			ItemID:   item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			AvgPrice: item.AvgPrice,
		}
	}
	return stock, nil
}

// computeBatchCostPerUnit prices one output unit from the current
// average price of each ingredient
func computeBatchCostPerUnit(ctx context.Context, itemRepo inventory.ItemRepository, batch *production.Production) (decimal.Decimal, error) {
	stock, err := loadStockViews(ctx, itemRepo, batch)
	if err != nil {
		return decimal.Zero, err
	}
	costPerUnit := decimal.Zero
	for _, ing := range batch.Ingredients {
		costPerUnit = costPerUnit.Add(ing.Quantity.Mul(stock[ing.ItemID].AvgPrice))
	}
	return costPerUnit.Round(4), nil
}

// toProductionResponse maps a domain batch to its response shape
func toProductionResponse(batch *production.Production) *ProductionResponse {
	ingredients := make([]ProductionIngredientResponse, 0, len(batch.Ingredients))
	for _, ing := range batch.Ingredients {
		ingredients = append(ingredients, ProductionIngredientResponse{
			ID:           ing.ID,
			ItemID:       ing.ItemID,
			Quantity:     ing.Quantity,
			IsFromRecipe: ing.IsFromRecipe,
		})
	}
	items := make([]ProductionItemResponse, 0, len(batch.Items))
	for _, item := range batch.Items {
		items = append(items, ProductionItemResponse{
			ID:           item.ID,
			ItemID:       item.ItemID,
			SerialNumber: item.SerialNumber,
			CostPrice:    item.CostPrice,
			IsSold:       item.IsSold,
		})
	}
	return &ProductionResponse{
		ID:             batch.ID,
		BatchNumber:    batch.BatchNumber,
		RecipeID:       batch.RecipeID,
		FinalItemID:    batch.FinalItemID,
		Quantity:       batch.Quantity,
		Status:         string(batch.Status),
		TotalCost:      batch.TotalCost,
		CostPerUnit:    batch.CostPerUnit,
		Notes:          batch.Notes,
		StartDate:      batch.StartDate,
		CompletionDate: batch.CompletionDate,
		Ingredients:    ingredients,
		Items:          items,
		CreatedAt:      batch.CreatedAt,
		UpdatedAt:      batch.UpdatedAt,
	}
}
