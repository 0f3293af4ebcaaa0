package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// PaymentStatus tracks how much of an invoice has been settled
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "UNPAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	return s == StatusUnpaid || s == StatusPartial || s == StatusPaid
}

// InvoiceLine is the input for one invoice line
type InvoiceLine struct {
	ItemID    uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// PurchaseInvoiceItem is a line of a purchase invoice
type PurchaseInvoiceItem struct {
	shared.BaseEntity
	PurchaseInvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseInvoiceItem) TableName() string {
	return "purchase_invoice_items"
}

// PurchaseInvoice records goods bought from a supplier. Booking an
// invoice raises the supplier payable and receives the lines into
// stock; both effects are reversed when the invoice is removed.
type PurchaseInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate    time.Time       `gorm:"not null;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status         PaymentStatus   `gorm:"type:varchar(10);not null;index"`
	Notes          *string         `gorm:"type:varchar(1000)"`
	CreatedByID    *uuid.UUID      `gorm:"type:uuid"`

	Items []PurchaseInvoiceItem `gorm:"foreignKey:PurchaseInvoiceID"`
}

// TableName returns the table name for GORM
func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}

// buildItems validates lines and computes the subtotal
func buildItems(invoiceID uuid.UUID, lines []InvoiceLine) ([]PurchaseInvoiceItem, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, shared.ErrInvalidInput.WithMessage("Invoice requires at least one line item")
	}

	items := make([]PurchaseInvoiceItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.ItemID == uuid.Nil {
			return nil, decimal.Zero, shared.ErrInvalidInput.WithMessage("Invoice line requires an item")
		}
		if !line.Quantity.IsPositive() {
			return nil, decimal.Zero, shared.ErrInvalidInput.WithMessage("Invoice line quantity must be positive")
		}
		if !line.UnitPrice.IsPositive() {
			return nil, decimal.Zero, shared.ErrInvalidInput.WithMessage("Invoice line unit price must be positive")
		}
		lineTotal := line.Quantity.Mul(line.UnitPrice)
		items = append(items, PurchaseInvoiceItem{
			BaseEntity:        shared.NewBaseEntity(),
			PurchaseInvoiceID: invoiceID,
			ItemID:            line.ItemID,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
			LineTotal:         lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal, nil
}

// NewPurchaseInvoice creates an unpaid invoice from its lines.
// Total = subtotal + tax - discount.
func NewPurchaseInvoice(invoiceNumber string, supplierID uuid.UUID, invoiceDate time.Time, lines []InvoiceLine, tax, discount decimal.Decimal) (*PurchaseInvoice, error) {
	if supplierID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Invoice requires a supplier")
	}
	if tax.IsNegative() || discount.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("Tax and discount cannot be negative")
	}

	invoice := &PurchaseInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SupplierID:        supplierID,
		InvoiceDate:       invoiceDate,
		TaxAmount:         tax,
		DiscountAmount:    discount,
		PaidAmount:        decimal.Zero,
		Status:            StatusUnpaid,
	}

	items, subtotal, err := buildItems(invoice.ID, lines)
	if err != nil {
		return nil, err
	}
	total := subtotal.Add(tax).Sub(discount)
	if !total.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Invoice total must be positive")
	}

	invoice.Items = items
	invoice.Subtotal = subtotal
	invoice.TotalAmount = total
	return invoice, nil
}

// WithNotes sets the free-form notes
func (i *PurchaseInvoice) WithNotes(notes string) *PurchaseInvoice {
	i.Notes = &notes
	return i
}

// WithCreatedBy records the admin who booked the invoice
func (i *PurchaseInvoice) WithCreatedBy(adminID uuid.UUID) *PurchaseInvoice {
	i.CreatedByID = &adminID
	return i
}

// RegisterPayment adds a settled amount and rolls the status forward
func (i *PurchaseInvoice) RegisterPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Payment amount must be positive")
	}
	paid := i.PaidAmount.Add(amount)
	if paid.GreaterThan(i.TotalAmount) {
		return shared.ErrInvalidInput.WithMessage("Payment exceeds invoice total")
	}
	i.PaidAmount = paid
	i.Status = i.deriveStatus()
	return nil
}

// deriveStatus computes the payment status from paid vs total
func (i *PurchaseInvoice) deriveStatus() PaymentStatus {
	switch {
	case i.PaidAmount.IsZero():
		return StatusUnpaid
	case i.PaidAmount.Equal(i.TotalAmount):
		return StatusPaid
	default:
		return StatusPartial
	}
}

// IsEditable reports whether the invoice lines can still change.
// Once any amount is paid the invoice is frozen.
func (i *PurchaseInvoice) IsEditable() bool {
	return i.Status == StatusUnpaid && i.PaidAmount.IsZero()
}

// ReplaceLines swaps the invoice lines and recomputes the totals.
// Only editable invoices accept new lines.
func (i *PurchaseInvoice) ReplaceLines(lines []InvoiceLine, tax, discount decimal.Decimal) error {
	if !i.IsEditable() {
		return shared.ErrConflict.WithMessage("Only unpaid invoices without payments can be edited")
	}
	if tax.IsNegative() || discount.IsNegative() {
		return shared.ErrInvalidInput.WithMessage("Tax and discount cannot be negative")
	}

	items, subtotal, err := buildItems(i.ID, lines)
	if err != nil {
		return err
	}
	total := subtotal.Add(tax).Sub(discount)
	if !total.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Invoice total must be positive")
	}

	i.Items = items
	i.Subtotal = subtotal
	i.TaxAmount = tax
	i.DiscountAmount = discount
	i.TotalAmount = total
	return nil
}

// OutstandingAmount returns the unpaid remainder
func (i *PurchaseInvoice) OutstandingAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}
