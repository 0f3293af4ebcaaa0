package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	// TransactionCredit increases the entity balance
	TransactionCredit TransactionType = "CREDIT"
	// TransactionDebit decreases the entity balance
	TransactionDebit TransactionType = "DEBIT"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

// String returns the string representation
func (t TransactionType) String() string {
	return string(t)
}

// EntityType identifies which kind of financial entity an entry belongs to
type EntityType string

const (
	EntityAccount  EntityType = "ACCOUNT"
	EntitySupplier EntityType = "SUPPLIER"
	EntityCustomer EntityType = "CUSTOMER"
)

// EntityRef points at exactly one financial entity
type EntityRef struct {
	AccountID  *uuid.UUID
	SupplierID *uuid.UUID
	CustomerID *uuid.UUID
}

// AccountRef creates a reference to an account
func AccountRef(id uuid.UUID) EntityRef {
	return EntityRef{AccountID: &id}
}

// SupplierRef creates a reference to a supplier
func SupplierRef(id uuid.UUID) EntityRef {
	return EntityRef{SupplierID: &id}
}

// CustomerRef creates a reference to a customer
func CustomerRef(id uuid.UUID) EntityRef {
	return EntityRef{CustomerID: &id}
}

// Validate checks that exactly one entity is referenced
func (r EntityRef) Validate() error {
	count := 0
	if r.AccountID != nil {
		count++
	}
	if r.SupplierID != nil {
		count++
	}
	if r.CustomerID != nil {
		count++
	}
	if count != 1 {
		return shared.ErrInvalidInput.WithMessage("Ledger entry must reference exactly one entity")
	}
	return nil
}

// Type returns the entity type of the reference
func (r EntityRef) Type() EntityType {
	switch {
	case r.AccountID != nil:
		return EntityAccount
	case r.SupplierID != nil:
		return EntitySupplier
	default:
		return EntityCustomer
	}
}

// EntityID returns the referenced entity ID
func (r EntityRef) EntityID() uuid.UUID {
	switch {
	case r.AccountID != nil:
		return *r.AccountID
	case r.SupplierID != nil:
		return *r.SupplierID
	case r.CustomerID != nil:
		return *r.CustomerID
	default:
		return uuid.Nil
	}
}

// Entry is an immutable ledger record. Amount is always positive;
// the transaction type determines the sign. Balance is the entity
// balance after this entry was applied.
type Entry struct {
	shared.BaseEntity

	AccountID  *uuid.UUID `gorm:"type:uuid;index"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`

	TransactionType TransactionType `gorm:"type:varchar(10);not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Balance         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description     string          `gorm:"type:varchar(500);not null"`

	ReferenceNumber   *string    `gorm:"type:varchar(100);index"`
	PaymentID         *uuid.UUID `gorm:"type:uuid;index"`
	PurchaseInvoiceID *uuid.UUID `gorm:"type:uuid;index"`
	ExpenseID         *uuid.UUID `gorm:"type:uuid;index"`

	TransactionDate time.Time  `gorm:"not null;index"`
	CreatedByID     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "ledger_entries"
}

// NewCreditEntry creates a credit entry that increases the entity balance
func NewCreditEntry(ref EntityRef, amount, balanceBefore decimal.Decimal, description string, transactionDate time.Time) (*Entry, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Ledger entry amount must be positive")
	}

	return &Entry{
		BaseEntity:      shared.NewBaseEntity(),
		AccountID:       ref.AccountID,
		SupplierID:      ref.SupplierID,
		CustomerID:      ref.CustomerID,
		TransactionType: TransactionCredit,
		Amount:          amount,
		Balance:         balanceBefore.Add(amount),
		Description:     description,
		TransactionDate: transactionDate,
	}, nil
}

// NewDebitEntry creates a debit entry that decreases the entity balance.
// The entity balance must cover the full amount.
func NewDebitEntry(ref EntityRef, amount, balanceBefore decimal.Decimal, description string, transactionDate time.Time) (*Entry, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Ledger entry amount must be positive")
	}
	if balanceBefore.LessThan(amount) {
		return nil, shared.ErrInsufficientFunds
	}

	return &Entry{
		BaseEntity:      shared.NewBaseEntity(),
		AccountID:       ref.AccountID,
		SupplierID:      ref.SupplierID,
		CustomerID:      ref.CustomerID,
		TransactionType: TransactionDebit,
		Amount:          amount,
		Balance:         balanceBefore.Sub(amount),
		Description:     description,
		TransactionDate: transactionDate,
	}, nil
}

// WithReference sets the human-readable reference number
func (e *Entry) WithReference(referenceNumber string) *Entry {
	e.ReferenceNumber = &referenceNumber
	return e
}

// WithPayment links the entry to a payment
func (e *Entry) WithPayment(paymentID uuid.UUID) *Entry {
	e.PaymentID = &paymentID
	return e
}

// WithPurchaseInvoice links the entry to a purchase invoice
func (e *Entry) WithPurchaseInvoice(invoiceID uuid.UUID) *Entry {
	e.PurchaseInvoiceID = &invoiceID
	return e
}

// WithExpense links the entry to an expense
func (e *Entry) WithExpense(expenseID uuid.UUID) *Entry {
	e.ExpenseID = &expenseID
	return e
}

// WithCreatedBy records the admin who triggered the entry
func (e *Entry) WithCreatedBy(adminID uuid.UUID) *Entry {
	e.CreatedByID = &adminID
	return e
}

// EntityRef returns the entity reference of the entry
func (e *Entry) EntityRef() EntityRef {
	return EntityRef{
		AccountID:  e.AccountID,
		SupplierID: e.SupplierID,
		CustomerID: e.CustomerID,
	}
}

// GetSignedAmount returns the amount with sign applied by transaction type
func (e *Entry) GetSignedAmount() decimal.Decimal {
	if e.TransactionType == TransactionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// ApplyTo returns the balance after applying this entry to the given balance
func (e *Entry) ApplyTo(balance decimal.Decimal) decimal.Decimal {
	return balance.Add(e.GetSignedAmount())
}
