package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// Customer is a buyer of finished goods. CurrentBalance is the
// outstanding receivable, maintained through ledger entries.
type Customer struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(255);not null;index"`
	Phone          *string         `gorm:"type:varchar(50)"`
	Email          *string         `gorm:"type:varchar(255)"`
	Address        *string         `gorm:"type:varchar(500)"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedByID    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with current balance equal to the
// opening balance
func NewCustomer(name string, openingBalance decimal.Decimal) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Customer name is required")
	}
	if openingBalance.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("Opening balance cannot be negative")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		OpeningBalance:    openingBalance,
		CurrentBalance:    openingBalance,
	}, nil
}

// UpdateContact updates the mutable contact fields
func (c *Customer) UpdateContact(phone, email, address *string) {
	c.Phone = phone
	c.Email = email
	c.Address = address
}

// Rename updates the customer name
func (c *Customer) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrInvalidInput.WithMessage("Customer name is required")
	}
	c.Name = name
	return nil
}

// Credit increases the outstanding receivable
func (c *Customer) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Credit amount must be positive")
	}
	c.CurrentBalance = c.CurrentBalance.Add(amount)
	return nil
}

// Debit reduces the outstanding receivable. A collection cannot exceed
// what the customer owes.
func (c *Customer) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Debit amount must be positive")
	}
	if c.CurrentBalance.LessThan(amount) {
		return shared.ErrInsufficientFunds.WithMessage("Collection exceeds outstanding customer balance")
	}
	c.CurrentBalance = c.CurrentBalance.Sub(amount)
	return nil
}

// SetBalance overwrites the current balance after a ledger replay
func (c *Customer) SetBalance(balance decimal.Decimal) {
	c.CurrentBalance = balance
}

// HasOnlyOpeningActivity reports whether the balance still equals the
// opening balance
func (c *Customer) HasOnlyOpeningActivity() bool {
	return c.CurrentBalance.Equal(c.OpeningBalance)
}
