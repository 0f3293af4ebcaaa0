package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// ItemService provides item management and the stock adjustment
// workflow
type ItemService struct {
	scope          TransactionScope
	itemRepo       inventory.ItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
	categoryRepo   inventory.ItemCategoryRepository
}

// NewItemService creates a new item service
func NewItemService(
	scope TransactionScope,
	itemRepo inventory.ItemRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	categoryRepo inventory.ItemCategoryRepository,
) *ItemService {
	return &ItemService{
		scope:          scope,
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		categoryRepo:   categoryRepo,
	}
}

// CreateItemRequest represents a request to create an item
type CreateItemRequest struct {
	Name       string     `json:"name" binding:"required"`
	Type       string     `json:"type" binding:"required,oneof=RAW FINAL"`
	CategoryID *uuid.UUID `json:"category_id"`
	Unit       *string    `json:"unit"`
	CreatedBy  *uuid.UUID `json:"-"`
}

// UpdateItemRequest represents a request to update an item.
// Type, quantity and average price are not editable here.
type UpdateItemRequest struct {
	Name       string     `json:"name" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
	Unit       *string    `json:"unit"`
}

// AdjustStockRequest represents a manual stock adjustment.
// Delta is signed; adding stock requires a unit price.
type AdjustStockRequest struct {
	Delta     decimal.Decimal  `json:"delta" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Reason    string           `json:"reason" binding:"required"`
	CreatedBy *uuid.UUID       `json:"-"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	Unit       *string         `json:"unit,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StockInfoResponse represents the stock position of an item
type StockInfoResponse struct {
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// AdjustmentResponse represents a stock adjustment in API responses
type AdjustmentResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemID            uuid.UUID       `json:"item_id"`
	Delta             decimal.Decimal `json:"delta"`
	QuantityBefore    decimal.Decimal `json:"quantity_before"`
	QuantityAfter     decimal.Decimal `json:"quantity_after"`
	AvgPrice          decimal.Decimal `json:"avg_price"`
	Reason            string          `json:"reason"`
	PurchaseInvoiceID *uuid.UUID      `json:"purchase_invoice_id,omitempty"`
	ProductionID      *uuid.UUID      `json:"production_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreateItem creates an item with zero stock. Names must be unique
// within a category, case-insensitively.
func (s *ItemService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	existing, err := s.itemRepo.FindByNameInCategory(ctx, req.Name, req.CategoryID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("An item with this name already exists in the category")
	}

	item, err := inventory.NewItem(req.Name, inventory.ItemType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		item.WithCategory(*req.CategoryID)
	}
	if req.Unit != nil {
		item.WithUnit(*req.Unit)
	}
	item.CreatedByID = req.CreatedBy

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetItem returns a single item
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// ListItems returns items matching the filter
func (s *ItemService) ListItems(ctx context.Context, filter inventory.ItemFilter) (*shared.Paginated[ItemResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	items, err := s.itemRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *toItemResponse(&items[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateItem updates the editable item fields
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	existing, err := s.itemRepo.FindByNameInCategory(ctx, req.Name, req.CategoryID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != item.ID {
		return nil, shared.ErrAlreadyExists.WithMessage("An item with this name already exists in the category")
	}

	if err := item.Rename(req.Name); err != nil {
		return nil, err
	}
	item.CategoryID = req.CategoryID
	item.Unit = req.Unit

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// DeleteItem removes an item. Items with stock on hand or any
// adjustment history cannot be removed.
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item.HasStock() {
			return shared.ErrConflict.WithMessage("Items with stock on hand cannot be deleted")
		}

		history, err := repos.AdjustmentRepo().CountByItem(ctx, id)
		if err != nil {
			return err
		}
		if history > 0 {
			return shared.ErrConflict.WithMessage("Items with stock history cannot be deleted")
		}

		return repos.ItemRepo().Delete(ctx, id)
	})
}

// AdjustStock applies a signed stock delta to an item and records the
// adjustment in the same transaction. Positive deltas reprice the
// weighted average and require a unit price; negative deltas keep the
// average, resetting it when the quantity reaches zero.
func (s *ItemService) AdjustStock(ctx context.Context, itemID uuid.UUID, req AdjustStockRequest) (*ItemResponse, error) {
	if req.Delta.IsZero() {
		return nil, shared.ErrInvalidInput.WithMessage("Stock adjustment delta cannot be zero")
	}

	var adjusted *inventory.Item
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}

		quantityBefore := item.Quantity
		if req.Delta.IsPositive() {
			if req.UnitPrice == nil {
				return shared.ErrInvalidInput.WithMessage("Unit price is required when adding stock")
			}
			if err := item.AddStock(req.Delta, *req.UnitPrice); err != nil {
				return err
			}
		} else {
			if err := item.RemoveStock(req.Delta.Neg()); err != nil {
				return err
			}
		}

		adjustment, err := inventory.NewStockAdjustment(item.ID, req.Delta, quantityBefore, item.AvgPrice, req.Reason)
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			adjustment.WithCreatedBy(*req.CreatedBy)
		}

		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if err := repos.AdjustmentRepo().Create(ctx, adjustment); err != nil {
			return err
		}
		adjusted = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(adjusted), nil
}

// GetStockInfo returns the current stock position of an item
func (s *ItemService) GetStockInfo(ctx context.Context, itemID uuid.UUID) (*StockInfoResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &StockInfoResponse{
		ItemID:     item.ID,
		Name:       item.Name,
		Type:       string(item.Type),
		Quantity:   item.Quantity,
		AvgPrice:   item.AvgPrice,
		StockValue: item.StockValue(),
	}, nil
}

// GetStockHistory returns the paginated adjustment history of an item
func (s *ItemService) GetStockHistory(ctx context.Context, itemID uuid.UUID, filter inventory.AdjustmentFilter) (*shared.Paginated[AdjustmentResponse], error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	adjustments, err := s.adjustmentRepo.FindByItem(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.adjustmentRepo.Count(ctx, itemID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AdjustmentResponse, 0, len(adjustments))
	for i := range adjustments {
		responses = append(responses, *toAdjustmentResponse(&adjustments[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// toItemResponse maps a domain item to its response shape
func toItemResponse(item *inventory.Item) *ItemResponse {
	return &ItemResponse{
		ID:         item.ID,
		Name:       item.Name,
		Type:       string(item.Type),
		CategoryID: item.CategoryID,
		Unit:       item.Unit,
		Quantity:   item.Quantity,
		AvgPrice:   item.AvgPrice,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// toAdjustmentResponse maps a domain adjustment to its response shape
func toAdjustmentResponse(adj *inventory.StockAdjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:                adj.ID,
		ItemID:            adj.ItemID,
		Delta:             adj.Delta,
		QuantityBefore:    adj.QuantityBefore,
		QuantityAfter:     adj.QuantityAfter,
		AvgPrice:          adj.AvgPrice,
		Reason:            adj.Reason,
		PurchaseInvoiceID: adj.PurchaseInvoiceID,
		ProductionID:      adj.ProductionID,
		CreatedAt:         adj.CreatedAt,
	}
}
