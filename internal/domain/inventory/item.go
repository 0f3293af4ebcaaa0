package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// ItemType separates purchased materials from manufactured goods
type ItemType string

const (
	// ItemRaw is a purchased material consumed by production
	ItemRaw ItemType = "RAW"
	// ItemFinal is a manufactured good produced from raw materials
	ItemFinal ItemType = "FINAL"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	return t == ItemRaw || t == ItemFinal
}

// ItemCategory groups items for browsing
type ItemCategory struct {
	shared.BaseEntity
	Name        string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description *string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ItemCategory) TableName() string {
	return "item_categories"
}

// NewItemCategory creates a new item category
func NewItemCategory(name string, description *string) (*ItemCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Category name is required")
	}
	return &ItemCategory{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
	}, nil
}

// Item is a stocked good carrying a moving weighted-average cost.
// Type is fixed at creation; quantity and average price change only
// through the stock methods so that every mutation leaves an adjustment
// record behind.
type Item struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(255);not null;index"`
	Type        ItemType        `gorm:"type:varchar(10);not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Unit        *string         `gorm:"type:varchar(50)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedByID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new item with zero stock
func NewItem(name string, itemType ItemType) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Item name is required")
	}
	if !itemType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Item type must be RAW or FINAL")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              itemType,
		Quantity:          decimal.Zero,
		AvgPrice:          decimal.Zero,
	}, nil
}

// WithCategory places the item in a category
func (i *Item) WithCategory(categoryID uuid.UUID) *Item {
	i.CategoryID = &categoryID
	return i
}

// WithUnit sets the measurement unit
func (i *Item) WithUnit(unit string) *Item {
	i.Unit = &unit
	return i
}

// Rename updates the item name
func (i *Item) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrInvalidInput.WithMessage("Item name is required")
	}
	i.Name = name
	return nil
}

// AddStock increases quantity and recomputes the moving weighted
// average: (oldQty*oldAvg + qty*unitPrice) / (oldQty+qty), rounded to
// 4 decimal places. A positive unit price is required because the
// incoming stock repriced the average.
func (i *Item) AddStock(quantity, unitPrice decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Quantity to add must be positive")
	}
	if !unitPrice.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Unit price must be positive when adding stock")
	}

	if i.Quantity.IsZero() {
		i.Quantity = quantity
		i.AvgPrice = unitPrice.Round(4)
		return nil
	}

	totalValue := i.Quantity.Mul(i.AvgPrice).Add(quantity.Mul(unitPrice))
	totalQuantity := i.Quantity.Add(quantity)
	i.AvgPrice = totalValue.Div(totalQuantity).Round(4)
	i.Quantity = totalQuantity
	return nil
}

// RemoveStock decreases quantity, keeping the average price unchanged.
// When the quantity reaches exactly zero the average resets to zero so
// the next receipt starts a fresh average.
func (i *Item) RemoveStock(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Quantity to remove must be positive")
	}
	if i.Quantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	i.Quantity = i.Quantity.Sub(quantity)
	if i.Quantity.IsZero() {
		i.AvgPrice = decimal.Zero
	}
	return nil
}

// ReceiveAtCost adds produced quantity and overwrites the average price
// with the production cost per unit. Finished goods take the cost of the
// latest batch rather than a blended average.
func (i *Item) ReceiveAtCost(quantity, costPerUnit decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Quantity to receive must be positive")
	}
	if costPerUnit.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("Cost per unit cannot be negative")
	}
	i.Quantity = i.Quantity.Add(quantity)
	i.AvgPrice = costPerUnit.Round(4)
	return nil
}

// StockValue returns quantity times average price
func (i *Item) StockValue() decimal.Decimal {
	return i.Quantity.Mul(i.AvgPrice)
}

// HasStock reports whether any quantity is on hand
func (i *Item) HasStock() bool {
	return i.Quantity.IsPositive()
}
