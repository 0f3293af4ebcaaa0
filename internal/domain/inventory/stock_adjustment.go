package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// StockAdjustment is an immutable audit record of one stock mutation.
// Delta is signed: positive for receipts, negative for removals.
// AvgPrice is the item's average price after the mutation.
type StockAdjustment struct {
	shared.BaseEntity
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Delta          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AvgPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason         string          `gorm:"type:varchar(500);not null"`

	PurchaseInvoiceID *uuid.UUID `gorm:"type:uuid;index"`
	ProductionID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedByID       *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment records a stock mutation that already happened on
// the item. quantityBefore is the quantity prior to the mutation and
// avgPrice the average price after it.
func NewStockAdjustment(itemID uuid.UUID, delta, quantityBefore, avgPrice decimal.Decimal, reason string) (*StockAdjustment, error) {
	if itemID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Item is required for a stock adjustment")
	}
	if delta.IsZero() {
		return nil, shared.ErrInvalidInput.WithMessage("Stock adjustment delta cannot be zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Stock adjustment reason is required")
	}

	return &StockAdjustment{
		BaseEntity:     shared.NewBaseEntity(),
		ItemID:         itemID,
		Delta:          delta,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityBefore.Add(delta),
		AvgPrice:       avgPrice,
		Reason:         reason,
	}, nil
}

// WithPurchaseInvoice links the adjustment to a purchase invoice
func (a *StockAdjustment) WithPurchaseInvoice(invoiceID uuid.UUID) *StockAdjustment {
	a.PurchaseInvoiceID = &invoiceID
	return a
}

// WithProduction links the adjustment to a production batch
func (a *StockAdjustment) WithProduction(productionID uuid.UUID) *StockAdjustment {
	a.ProductionID = &productionID
	return a
}

// WithCreatedBy records the admin who triggered the adjustment
func (a *StockAdjustment) WithCreatedBy(adminID uuid.UUID) *StockAdjustment {
	a.CreatedByID = &adminID
	return a
}

// IsIncrease reports whether the adjustment added stock
func (a *StockAdjustment) IsIncrease() bool {
	return a.Delta.IsPositive()
}
