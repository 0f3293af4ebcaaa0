package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshoperp/backend/internal/domain/inventory"
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

type memCategoryRepo struct {
	categories map[uuid.UUID]*inventory.ItemCategory
	itemCounts map[uuid.UUID]int64
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{
		categories: make(map[uuid.UUID]*inventory.ItemCategory),
		itemCounts: make(map[uuid.UUID]int64),
	}
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.ItemCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound.WithMessage("Item category not found")
	}
	copied := *category
	return &copied, nil
}

func (r *memCategoryRepo) FindByName(_ context.Context, name string) (*inventory.ItemCategory, error) {
	for _, category := range r.categories {
		if strings.EqualFold(category.Name, name) {
			copied := *category
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound.WithMessage("Item category not found")
}

func (r *memCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.ItemCategory, error) {
	result := make([]inventory.ItemCategory, 0, len(r.categories))
	for _, category := range r.categories {
		result = append(result, *category)
	}
	return result, nil
}

func (r *memCategoryRepo) Save(_ context.Context, category *inventory.ItemCategory) error {
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *memCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.categories)), nil
}

func (r *memCategoryRepo) CountItems(_ context.Context, categoryID uuid.UUID) (int64, error) {
	return r.itemCounts[categoryID], nil
}

type itemFixture struct {
	service        *ItemService
	itemRepo       *memItemRepo
	adjustmentRepo *memAdjustmentRepo
	categoryRepo   *memCategoryRepo
}

func newItemFixture() *itemFixture {
	itemRepo := newMemItemRepo()
	adjustmentRepo := &memAdjustmentRepo{}
	categoryRepo := newMemCategoryRepo()
	scope := NewNoOpTransactionScope(itemRepo, adjustmentRepo)
	return &itemFixture{
		service:        NewItemService(scope, itemRepo, adjustmentRepo, categoryRepo),
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		categoryRepo:   categoryRepo,
	}
}

func (f *itemFixture) seedItem(t *testing.T, name string, itemType inventory.ItemType) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(name, itemType)
	require.NoError(t, err)
	require.NoError(t, f.itemRepo.Save(context.Background(), item))
	return item
}

func TestItemService_CreateItem(t *testing.T) {
	f := newItemFixture()

	resp, err := f.service.CreateItem(context.Background(), CreateItemRequest{
		Name: "Oak plank",
		Type: "RAW",
	})
	require.NoError(t, err)
	assert.Equal(t, "Oak plank", resp.Name)
	assert.Equal(t, "RAW", resp.Type)
	assert.True(t, resp.Quantity.IsZero())
	assert.True(t, resp.AvgPrice.IsZero())
}

func TestItemService_CreateItem_DuplicateNameInCategory(t *testing.T) {
	f := newItemFixture()
	f.seedItem(t, "Oak plank", inventory.ItemRaw)

	_, err := f.service.CreateItem(context.Background(), CreateItemRequest{
		Name: "oak PLANK",
		Type: "RAW",
	})
	require.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestItemService_CreateItem_UnknownCategory(t *testing.T) {
	f := newItemFixture()
	missing := uuid.New()

	_, err := f.service.CreateItem(context.Background(), CreateItemRequest{
		Name:       "Oak plank",
		Type:       "RAW",
		CategoryID: &missing,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestItemService_AdjustStock_AddRepricesWeightedAverage(t *testing.T) {
	f := newItemFixture()
	item := f.seedItem(t, "Oak plank", inventory.ItemRaw)

	price10 := decimal.NewFromInt(10)
	_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
		Delta:     decimal.NewFromInt(10),
		UnitPrice: &price10,
		Reason:    "Initial stock",
	})
	require.NoError(t, err)

	price20 := decimal.NewFromInt(20)
	resp, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
		Delta:     decimal.NewFromInt(10),
		UnitPrice: &price20,
		Reason:    "Restock at a higher price",
	})
	require.NoError(t, err)

	// (10*10 + 10*20) / 20 = 15
	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.AvgPrice.Equal(decimal.NewFromInt(15)), "weighted average should be 15, got %s", resp.AvgPrice)
	assert.Len(t, f.adjustmentRepo.adjustments, 2)
}

func TestItemService_AdjustStock_RemoveKeepsAveragePrice(t *testing.T) {
	f := newItemFixture()
	item := f.seedItem(t, "Oak plank", inventory.ItemRaw)

	price := decimal.NewFromInt(12)
	_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
		Delta:     decimal.NewFromInt(8),
		UnitPrice: &price,
		Reason:    "Initial stock",
	})
	require.NoError(t, err)

	resp, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
		Delta:  decimal.NewFromInt(-3),
		Reason: "Damaged in storage",
	})
	require.NoError(t, err)

	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, resp.AvgPrice.Equal(price), "removal must not reprice remaining stock")
}

func TestItemService_AdjustStock_Validation(t *testing.T) {
	f := newItemFixture()
	item := f.seedItem(t, "Oak plank", inventory.ItemRaw)

	t.Run("zero delta rejected", func(t *testing.T) {
		_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta:  decimal.Zero,
			Reason: "No-op",
		})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("positive delta requires unit price", func(t *testing.T) {
		_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta:  decimal.NewFromInt(5),
			Reason: "Missing price",
		})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("removal beyond stock rejected", func(t *testing.T) {
		_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta:  decimal.NewFromInt(-1),
			Reason: "Nothing on hand",
		})
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Empty(t, f.adjustmentRepo.adjustments)
	})
}

func TestItemService_GetStockInfo(t *testing.T) {
	f := newItemFixture()
	item := f.seedItem(t, "Oak plank", inventory.ItemRaw)

	price := decimal.NewFromInt(10)
	_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
		Delta:     decimal.NewFromInt(4),
		UnitPrice: &price,
		Reason:    "Initial stock",
	})
	require.NoError(t, err)

	info, err := f.service.GetStockInfo(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, info.Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, info.StockValue.Equal(decimal.NewFromInt(40)))
}

func TestItemService_DeleteItem_Guards(t *testing.T) {
	f := newItemFixture()

	t.Run("item with stock cannot be deleted", func(t *testing.T) {
		item := f.seedItem(t, "Oak plank", inventory.ItemRaw)
		price := decimal.NewFromInt(10)
		_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta:     decimal.NewFromInt(2),
			UnitPrice: &price,
			Reason:    "Initial stock",
		})
		require.NoError(t, err)

		err = f.service.DeleteItem(context.Background(), item.ID)
		require.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("item with history cannot be deleted even at zero stock", func(t *testing.T) {
		item := f.seedItem(t, "Pine board", inventory.ItemRaw)
		price := decimal.NewFromInt(10)
		_, err := f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta:     decimal.NewFromInt(2),
			UnitPrice: &price,
			Reason:    "Initial stock",
		})
		require.NoError(t, err)
		_, err = f.service.AdjustStock(context.Background(), item.ID, AdjustStockRequest{
			Delta:  decimal.NewFromInt(-2),
			Reason: "Used up",
		})
		require.NoError(t, err)

		err = f.service.DeleteItem(context.Background(), item.ID)
		require.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("untouched item is deleted", func(t *testing.T) {
		item := f.seedItem(t, "Birch veneer", inventory.ItemRaw)

		err := f.service.DeleteItem(context.Background(), item.ID)
		require.NoError(t, err)

		_, err = f.itemRepo.FindByID(context.Background(), item.ID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCategoryService_DeleteWithItems(t *testing.T) {
	categoryRepo := newMemCategoryRepo()
	service := NewCategoryService(categoryRepo)

	category, err := inventory.NewItemCategory("Lumber", nil)
	require.NoError(t, err)
	require.NoError(t, categoryRepo.Save(context.Background(), category))
	categoryRepo.itemCounts[category.ID] = 3

	err = service.DeleteCategory(context.Background(), category.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestCategoryService_DuplicateName(t *testing.T) {
	categoryRepo := newMemCategoryRepo()
	service := NewCategoryService(categoryRepo)

	_, err := service.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Lumber"})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), CreateCategoryRequest{Name: "lumber"})
	require.ErrorIs(t, err, shared.ErrAlreadyExists)
}
