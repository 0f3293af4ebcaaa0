package production

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/production"
	"github.com/workshoperp/backend/internal/domain/shared"
)

type memItemRepo struct {
	items map[uuid.UUID]*inventory.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]*inventory.Item)}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Item not found")
	}
	copied := *item
	return &copied, nil
}

func (r *memItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	return r.FindByID(ctx, id)
}

func (r *memItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]inventory.Item, error) {
	var result []inventory.Item
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *memItemRepo) FindByNameInCategory(_ context.Context, name string, categoryID *uuid.UUID) (*inventory.Item, error) {
	for _, item := range r.items {
		if !strings.EqualFold(item.Name, name) {
			continue
		}
		sameCategory := (item.CategoryID == nil && categoryID == nil) ||
			(item.CategoryID != nil && categoryID != nil && *item.CategoryID == *categoryID)
		if sameCategory {
			copied := *item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound.WithMessage("Item not found")
}

func (r *memItemRepo) FindAll(_ context.Context, _ inventory.ItemFilter) ([]inventory.Item, error) {
	result := make([]inventory.Item, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	return result, nil
}

func (r *memItemRepo) Save(_ context.Context, item *inventory.Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memItemRepo) Count(_ context.Context, _ inventory.ItemFilter) (int64, error) {
	return int64(len(r.items)), nil
}

type memAdjustmentRepo struct {
	adjustments []inventory.StockAdjustment
}

func (r *memAdjustmentRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	for i := range r.adjustments {
		if r.adjustments[i].ID == id {
			adj := r.adjustments[i]
			return &adj, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAdjustmentRepo) FindByItem(_ context.Context, itemID uuid.UUID, _ inventory.AdjustmentFilter) ([]inventory.StockAdjustment, error) {
	var matched []inventory.StockAdjustment
	for i := range r.adjustments {
		if r.adjustments[i].ItemID == itemID {
			matched = append(matched, r.adjustments[i])
		}
	}
	return matched, nil
}

func (r *memAdjustmentRepo) FindByPurchaseInvoice(_ context.Context, invoiceID uuid.UUID) ([]inventory.StockAdjustment, error) {
	var matched []inventory.StockAdjustment
	for i := range r.adjustments {
		if r.adjustments[i].PurchaseInvoiceID != nil && *r.adjustments[i].PurchaseInvoiceID == invoiceID {
			matched = append(matched, r.adjustments[i])
		}
	}
	return matched, nil
}

func (r *memAdjustmentRepo) FindByProduction(_ context.Context, productionID uuid.UUID) ([]inventory.StockAdjustment, error) {
	var matched []inventory.StockAdjustment
	for i := range r.adjustments {
		if r.adjustments[i].ProductionID != nil && *r.adjustments[i].ProductionID == productionID {
			matched = append(matched, r.adjustments[i])
		}
	}
	return matched, nil
}

func (r *memAdjustmentRepo) Create(_ context.Context, adjustment *inventory.StockAdjustment) error {
	r.adjustments = append(r.adjustments, *adjustment)
	return nil
}

func (r *memAdjustmentRepo) DeleteByPurchaseInvoice(_ context.Context, invoiceID uuid.UUID) error {
	kept := r.adjustments[:0]
	for _, adj := range r.adjustments {
		if adj.PurchaseInvoiceID == nil || *adj.PurchaseInvoiceID != invoiceID {
			kept = append(kept, adj)
		}
	}
	r.adjustments = kept
	return nil
}

func (r *memAdjustmentRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for i := range r.adjustments {
		if r.adjustments[i].ItemID == itemID {
			count++
		}
	}
	return count, nil
}

func (r *memAdjustmentRepo) Count(ctx context.Context, itemID uuid.UUID, _ inventory.AdjustmentFilter) (int64, error) {
	return r.CountByItem(ctx, itemID)
}

type memRecipeRepo struct {
	recipes map[uuid.UUID]*production.Recipe
}

func newMemRecipeRepo() *memRecipeRepo {
	return &memRecipeRepo{recipes: make(map[uuid.UUID]*production.Recipe)}
}

func (r *memRecipeRepo) FindByID(_ context.Context, id uuid.UUID) (*production.Recipe, error) {
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Recipe not found")
	}
	copied := *recipe
	return &copied, nil
}

func (r *memRecipeRepo) FindByFinalItem(_ context.Context, finalItemID uuid.UUID) (*production.Recipe, error) {
	for _, recipe := range r.recipes {
		if recipe.FinalItemID == finalItemID {
			copied := *recipe
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound.WithMessage("Recipe not found")
}

func (r *memRecipeRepo) FindAll(_ context.Context, _ shared.Filter) ([]production.Recipe, error) {
	result := make([]production.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		result = append(result, *recipe)
	}
	return result, nil
}

func (r *memRecipeRepo) Save(_ context.Context, recipe *production.Recipe) error {
	copied := *recipe
	r.recipes[recipe.ID] = &copied
	return nil
}

func (r *memRecipeRepo) DeleteIngredients(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (r *memRecipeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.recipes, id)
	return nil
}

func (r *memRecipeRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.recipes)), nil
}

type memProductionRepo struct {
	batches map[uuid.UUID]*production.Production
}

func newMemProductionRepo() *memProductionRepo {
	return &memProductionRepo{batches: make(map[uuid.UUID]*production.Production)}
}

func (r *memProductionRepo) FindByID(_ context.Context, id uuid.UUID) (*production.Production, error) {
	batch, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Production batch not found")
	}
	copied := *batch
	return &copied, nil
}

func (r *memProductionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.Production, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductionRepo) FindByBatchNumber(_ context.Context, batchNumber string) (*production.Production, error) {
	for _, batch := range r.batches {
		if batch.BatchNumber == batchNumber {
			copied := *batch
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound.WithMessage("Production batch not found")
}

func (r *memProductionRepo) FindAll(_ context.Context, _ production.ProductionFilter) ([]production.Production, error) {
	result := make([]production.Production, 0, len(r.batches))
	for _, batch := range r.batches {
		result = append(result, *batch)
	}
	return result, nil
}

func (r *memProductionRepo) Save(_ context.Context, batch *production.Production) error {
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

func (r *memProductionRepo) DeleteIngredients(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (r *memProductionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.batches, id)
	return nil
}

func (r *memProductionRepo) Count(_ context.Context, _ production.ProductionFilter) (int64, error) {
	return int64(len(r.batches)), nil
}

func (r *memProductionRepo) CountByRecipe(_ context.Context, recipeID uuid.UUID) (int64, error) {
	var count int64
	for _, batch := range r.batches {
		if batch.RecipeID == recipeID {
			count++
		}
	}
	return count, nil
}

func (r *memProductionRepo) CountDoneByRecipe(_ context.Context, recipeID uuid.UUID) (int64, error) {
	var count int64
	for _, batch := range r.batches {
		if batch.RecipeID == recipeID && batch.Status == production.StatusDone {
			count++
		}
	}
	return count, nil
}

func (r *memProductionRepo) ExistingSerials(_ context.Context, serials []string) ([]string, error) {
	taken := make(map[string]struct{})
	for _, batch := range r.batches {
		for _, item := range batch.Items {
			taken[item.SerialNumber] = struct{}{}
		}
	}
	var matched []string
	for _, serial := range serials {
		if _, ok := taken[serial]; ok {
			matched = append(matched, serial)
		}
	}
	return matched, nil
}

type productionFixture struct {
	service        *ProductionService
	productionRepo *memProductionRepo
	recipeRepo     *memRecipeRepo
	itemRepo       *memItemRepo
	adjustmentRepo *memAdjustmentRepo

	wood   *inventory.Item
	screws *inventory.Item
	chair  *inventory.Item
	recipe *production.Recipe
}

// newProductionFixture seeds a chair recipe needing 4 wood and 10
// screws per unit, with 100 wood at 5.00 and 100 screws at 1.00 on hand
func newProductionFixture(t *testing.T) *productionFixture {
	t.Helper()

	itemRepo := newMemItemRepo()
	adjustmentRepo := &memAdjustmentRepo{}
	recipeRepo := newMemRecipeRepo()
	productionRepo := newMemProductionRepo()

	seed := func(name string, itemType inventory.ItemType, qty, price int64) *inventory.Item {
		item, err := inventory.NewItem(name, itemType)
		require.NoError(t, err)
		if qty > 0 {
			require.NoError(t, item.AddStock(decimal.NewFromInt(qty), decimal.NewFromInt(price)))
		}
		require.NoError(t, itemRepo.Save(context.Background(), item))
		return item
	}

	wood := seed("Wood", inventory.ItemRaw, 100, 5)
	screws := seed("Screws", inventory.ItemRaw, 100, 1)
	chair := seed("Chair", inventory.ItemFinal, 0, 0)

	recipe, err := production.NewRecipe(chair.ID, []production.IngredientLine{
		{ItemID: wood.ID, Quantity: decimal.NewFromInt(4)},
		{ItemID: screws.ID, Quantity: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)
	require.NoError(t, recipeRepo.Save(context.Background(), recipe))

	scope := NewNoOpTransactionScope(productionRepo, recipeRepo, itemRepo, adjustmentRepo)
	return &productionFixture{
		service:        NewProductionService(scope, productionRepo, recipeRepo, itemRepo),
		productionRepo: productionRepo,
		recipeRepo:     recipeRepo,
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		wood:           wood,
		screws:         screws,
		chair:          chair,
		recipe:         recipe,
	}
}

func (f *productionFixture) createBatch(t *testing.T, batchNumber string, quantity int64) *ProductionResponse {
	t.Helper()
	resp, err := f.service.CreateProduction(context.Background(), CreateProductionRequest{
		BatchNumber: batchNumber,
		RecipeID:    f.recipe.ID,
		Quantity:    decimal.NewFromInt(quantity),
	})
	require.NoError(t, err)
	return resp
}

func TestProductionService_CreateProduction(t *testing.T) {
	f := newProductionFixture(t)

	resp := f.createBatch(t, "B-001", 5)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, f.chair.ID, resp.FinalItemID)
	require.Len(t, resp.Ingredients, 2)
	assert.True(t, resp.Ingredients[0].IsFromRecipe)
}

func TestProductionService_CreateProduction_DuplicateBatchNumber(t *testing.T) {
	f := newProductionFixture(t)
	f.createBatch(t, "B-001", 5)

	_, err := f.service.CreateProduction(context.Background(), CreateProductionRequest{
		BatchNumber: "B-001",
		RecipeID:    f.recipe.ID,
		Quantity:    decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestProductionService_CreateProduction_FractionalQuantity(t *testing.T) {
	f := newProductionFixture(t)

	_, err := f.service.CreateProduction(context.Background(), CreateProductionRequest{
		BatchNumber: "B-001",
		RecipeID:    f.recipe.ID,
		Quantity:    decimal.NewFromFloat(2.5),
	})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestProductionService_GetFeasibility(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 5)

	report, err := f.service.GetFeasibility(context.Background(), batch.ID)
	require.NoError(t, err)

	assert.True(t, report.Feasible)
	require.Len(t, report.Ingredients, 2)
	// 4*5.00 + 10*1.00 per unit
	assert.True(t, report.CostPerUnit.Equal(decimal.NewFromInt(30)), "cost per unit should be 30, got %s", report.CostPerUnit)
	assert.True(t, report.TotalCost.Equal(decimal.NewFromInt(150)))
}

func TestProductionService_GetFeasibility_Shortage(t *testing.T) {
	f := newProductionFixture(t)
	// 11 chairs need 110 screws but only 100 are on hand
	batch := f.createBatch(t, "B-001", 11)

	report, err := f.service.GetFeasibility(context.Background(), batch.ID)
	require.NoError(t, err)

	assert.False(t, report.Feasible)
	assert.NotEmpty(t, report.Suggestions)
	var screwsLine *production.IngredientRequirement
	for i := range report.Ingredients {
		if report.Ingredients[i].ItemID == f.screws.ID {
			screwsLine = &report.Ingredients[i]
		}
	}
	require.NotNil(t, screwsLine)
	assert.False(t, screwsLine.Sufficient)
	assert.True(t, screwsLine.Shortage.Equal(decimal.NewFromInt(10)))
}

func TestProductionService_StartProduction_ConsumesStock(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 5)

	resp, err := f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "IN_PROCESS", resp.Status)
	require.NotNil(t, resp.StartDate)

	wood, err := f.itemRepo.FindByID(context.Background(), f.wood.ID)
	require.NoError(t, err)
	assert.True(t, wood.Quantity.Equal(decimal.NewFromInt(80)), "5 chairs consume 20 wood")

	screws, err := f.itemRepo.FindByID(context.Background(), f.screws.ID)
	require.NoError(t, err)
	assert.True(t, screws.Quantity.Equal(decimal.NewFromInt(50)))

	// One consumption adjustment per ingredient, linked to the batch
	require.Len(t, f.adjustmentRepo.adjustments, 2)
	for _, adj := range f.adjustmentRepo.adjustments {
		require.NotNil(t, adj.ProductionID)
		assert.Equal(t, batch.ID, *adj.ProductionID)
		assert.True(t, adj.Delta.IsNegative())
	}
}

func TestProductionService_StartProduction_InsufficientStock(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 11)

	_, err := f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	// Nothing may move on a refused start
	wood, findErr := f.itemRepo.FindByID(context.Background(), f.wood.ID)
	require.NoError(t, findErr)
	assert.True(t, wood.Quantity.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.adjustmentRepo.adjustments)
}

func TestProductionService_StartProduction_OnlyFromDraft(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 2)

	_, err := f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.NoError(t, err)

	_, err = f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestProductionService_CompleteProduction(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 5)

	_, err := f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.NoError(t, err)

	resp, err := f.service.CompleteProduction(context.Background(), batch.ID, CompleteProductionRequest{
		Serials: []string{"SN-1", "SN-2", "SN-3", "SN-4", "SN-5"},
	})
	require.NoError(t, err)

	assert.Equal(t, "DONE", resp.Status)
	require.NotNil(t, resp.CompletionDate)
	// Ingredient averages are unchanged by consumption, so one unit
	// still costs 4*5.00 + 10*1.00
	assert.True(t, resp.CostPerUnit.Equal(decimal.NewFromInt(30)))
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(150)))
	require.Len(t, resp.Items, 5)
	for _, item := range resp.Items {
		assert.True(t, item.CostPrice.Equal(decimal.NewFromInt(30)))
		assert.False(t, item.IsSold)
	}

	// The finished good receives the batch at production cost
	chair, err := f.itemRepo.FindByID(context.Background(), f.chair.ID)
	require.NoError(t, err)
	assert.True(t, chair.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, chair.AvgPrice.Equal(decimal.NewFromInt(30)))

	// Two consumption adjustments plus one receipt adjustment
	require.Len(t, f.adjustmentRepo.adjustments, 3)
	receipt := f.adjustmentRepo.adjustments[2]
	assert.Equal(t, f.chair.ID, receipt.ItemID)
	assert.True(t, receipt.Delta.Equal(decimal.NewFromInt(5)))
}

func TestProductionService_CompleteProduction_SerialValidation(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 3)
	_, err := f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.NoError(t, err)

	t.Run("count mismatch", func(t *testing.T) {
		_, err := f.service.CompleteProduction(context.Background(), batch.ID, CompleteProductionRequest{
			Serials: []string{"SN-1", "SN-2"},
		})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("duplicate within batch", func(t *testing.T) {
		_, err := f.service.CompleteProduction(context.Background(), batch.ID, CompleteProductionRequest{
			Serials: []string{"SN-1", "SN-1", "SN-2"},
		})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestProductionService_CompleteProduction_SerialAlreadyTaken(t *testing.T) {
	f := newProductionFixture(t)

	first := f.createBatch(t, "B-001", 1)
	_, err := f.service.StartProduction(context.Background(), first.ID, time.Now())
	require.NoError(t, err)
	_, err = f.service.CompleteProduction(context.Background(), first.ID, CompleteProductionRequest{
		Serials: []string{"SN-1"},
	})
	require.NoError(t, err)

	second := f.createBatch(t, "B-002", 1)
	_, err = f.service.StartProduction(context.Background(), second.ID, time.Now())
	require.NoError(t, err)
	_, err = f.service.CompleteProduction(context.Background(), second.ID, CompleteProductionRequest{
		Serials: []string{"SN-1"},
	})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestProductionService_UpdateIngredients_ClearsRecipeFlag(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 2)

	resp, err := f.service.UpdateIngredients(context.Background(), batch.ID, UpdateIngredientsRequest{
		Ingredients: []IngredientLineRequest{
			{ItemID: f.wood.ID, Quantity: decimal.NewFromInt(6)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Ingredients, 1)
	assert.False(t, resp.Ingredients[0].IsFromRecipe)
	assert.True(t, resp.Ingredients[0].Quantity.Equal(decimal.NewFromInt(6)))
}

func TestProductionService_UpdateNotes_OnlyDraft(t *testing.T) {
	f := newProductionFixture(t)
	batch := f.createBatch(t, "B-001", 1)

	resp, err := f.service.UpdateNotes(context.Background(), batch.ID, UpdateNotesRequest{Notes: "rush order"})
	require.NoError(t, err)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "rush order", *resp.Notes)

	_, err = f.service.StartProduction(context.Background(), batch.ID, time.Now())
	require.NoError(t, err)

	_, err = f.service.UpdateNotes(context.Background(), batch.ID, UpdateNotesRequest{Notes: "too late"})
	require.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestProductionService_DeleteProduction_OnlyDraft(t *testing.T) {
	f := newProductionFixture(t)

	draft := f.createBatch(t, "B-001", 1)
	require.NoError(t, f.service.DeleteProduction(context.Background(), draft.ID))

	started := f.createBatch(t, "B-002", 1)
	_, err := f.service.StartProduction(context.Background(), started.ID, time.Now())
	require.NoError(t, err)

	err = f.service.DeleteProduction(context.Background(), started.ID)
	require.ErrorIs(t, err, shared.ErrInvalidState)
}
