package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// Payment is money paid to a supplier from an account. A payment is
// either linked to a purchase invoice or a direct settlement of the
// supplier's outstanding balance.
type Payment struct {
	shared.BaseEntity
	PaymentNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentDate       time.Time       `gorm:"not null;index"`
	PurchaseInvoiceID *uuid.UUID      `gorm:"type:uuid;index"`
	Notes             *string         `gorm:"type:varchar(1000)"`
	CreatedByID       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment to a supplier
func NewPayment(paymentNumber string, supplierID, accountID uuid.UUID, amount decimal.Decimal, paymentDate time.Time) (*Payment, error) {
	if supplierID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Payment requires a supplier")
	}
	if accountID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Payment requires an account")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Payment amount must be positive")
	}

	return &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		PaymentNumber: paymentNumber,
		SupplierID:    supplierID,
		AccountID:     accountID,
		Amount:        amount,
		PaymentDate:   paymentDate,
	}, nil
}

// WithPurchaseInvoice links the payment to an invoice
func (p *Payment) WithPurchaseInvoice(invoiceID uuid.UUID) *Payment {
	p.PurchaseInvoiceID = &invoiceID
	return p
}

// WithNotes sets the free-form notes
func (p *Payment) WithNotes(notes string) *Payment {
	p.Notes = &notes
	return p
}

// WithCreatedBy records the admin who made the payment
func (p *Payment) WithCreatedBy(adminID uuid.UUID) *Payment {
	p.CreatedByID = &adminID
	return p
}

// IsDirect reports whether the payment settles the supplier balance
// without an invoice link
func (p *Payment) IsDirect() bool {
	return p.PurchaseInvoiceID == nil
}
