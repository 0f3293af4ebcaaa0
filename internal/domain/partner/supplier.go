package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// Supplier is a vendor the workshop buys raw materials from.
// CurrentBalance is the outstanding payable, maintained through
// ledger entries: invoices credit it, payments debit it.
type Supplier struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(255);not null;index"`
	ContactPerson  *string         `gorm:"type:varchar(255)"`
	Phone          *string         `gorm:"type:varchar(50)"`
	Email          *string         `gorm:"type:varchar(255)"`
	Address        *string         `gorm:"type:varchar(500)"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedByID    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with current balance equal to the
// opening balance
func NewSupplier(name string, openingBalance decimal.Decimal) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Supplier name is required")
	}
	if openingBalance.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("Opening balance cannot be negative")
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		OpeningBalance:    openingBalance,
		CurrentBalance:    openingBalance,
	}, nil
}

// UpdateContact updates the mutable contact fields
func (s *Supplier) UpdateContact(contactPerson, phone, email, address *string) {
	s.ContactPerson = contactPerson
	s.Phone = phone
	s.Email = email
	s.Address = address
}

// Rename updates the supplier name
func (s *Supplier) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrInvalidInput.WithMessage("Supplier name is required")
	}
	s.Name = name
	return nil
}

// Credit increases the outstanding payable, e.g. when an invoice is booked
func (s *Supplier) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Credit amount must be positive")
	}
	s.CurrentBalance = s.CurrentBalance.Add(amount)
	return nil
}

// Debit reduces the outstanding payable, e.g. when a payment is made.
// A payment cannot exceed what is owed.
func (s *Supplier) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Debit amount must be positive")
	}
	if s.CurrentBalance.LessThan(amount) {
		return shared.ErrInsufficientFunds.WithMessage("Payment exceeds outstanding supplier balance")
	}
	s.CurrentBalance = s.CurrentBalance.Sub(amount)
	return nil
}

// Adjust shifts the balance by a signed delta, used when an unpaid
// invoice total changes
func (s *Supplier) Adjust(delta decimal.Decimal) {
	s.CurrentBalance = s.CurrentBalance.Add(delta)
}

// SetBalance overwrites the current balance after a ledger replay
func (s *Supplier) SetBalance(balance decimal.Decimal) {
	s.CurrentBalance = balance
}

// HasOnlyOpeningActivity reports whether the balance still equals the
// opening balance
func (s *Supplier) HasOnlyOpeningActivity() bool {
	return s.CurrentBalance.Equal(s.OpeningBalance)
}
