package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDForUpdate finds an item by its ID and locks the row until
	// the surrounding transaction ends. Use it before changing quantity
	// or average price so concurrent stock movements serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDs finds multiple items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// FindByNameInCategory finds an item by name within a category,
	// case-insensitively
	FindByNameInCategory(ctx context.Context, name string, categoryID *uuid.UUID) (*Item, error)

	// FindAll finds items matching the filter
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts items matching the filter
	Count(ctx context.Context, filter ItemFilter) (int64, error)
}

// StockAdjustmentRepository defines the interface for adjustment
// persistence. Adjustments are append-only; they are removed only when
// their source document is removed.
type StockAdjustmentRepository interface {
	// FindByID finds an adjustment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)

	// FindByItem finds adjustments for an item, paginated
	FindByItem(ctx context.Context, itemID uuid.UUID, filter AdjustmentFilter) ([]StockAdjustment, error)

	// FindByPurchaseInvoice finds adjustments created by an invoice
	FindByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) ([]StockAdjustment, error)

	// FindByProduction finds adjustments created by a production batch
	FindByProduction(ctx context.Context, productionID uuid.UUID) ([]StockAdjustment, error)

	// Create appends a new adjustment
	Create(ctx context.Context, adjustment *StockAdjustment) error

	// DeleteByPurchaseInvoice removes adjustments linked to an invoice
	DeleteByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) error

	// CountByItem counts adjustments ever recorded for an item
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)

	// Count counts adjustments matching the filter
	Count(ctx context.Context, itemID uuid.UUID, filter AdjustmentFilter) (int64, error)
}

// ItemCategoryRepository defines the interface for category persistence
type ItemCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemCategory, error)
	FindByName(ctx context.Context, name string) (*ItemCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ItemCategory, error)
	Save(ctx context.Context, category *ItemCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountItems counts items placed in a category
	CountItems(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// ItemFilter extends shared.Filter with item-specific filters
type ItemFilter struct {
	shared.Filter
	Type       *ItemType
	CategoryID *uuid.UUID
	InStock    bool
}

// AdjustmentFilter extends shared.Filter with adjustment-specific filters
type AdjustmentFilter struct {
	shared.Filter
	StartDate *time.Time
	EndDate   *time.Time
	Increase  *bool
}
