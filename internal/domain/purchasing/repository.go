package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// PurchaseInvoiceRepository defines the interface for invoice persistence
type PurchaseInvoiceRepository interface {
	// FindByID finds an invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseInvoice, error)

	// FindByIDForUpdate finds an invoice with its lines and locks the
	// invoice row until the surrounding transaction ends, so payment
	// registration and edits serialize
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseInvoice, error)

	// FindByNumber finds an invoice by its document number
	FindByNumber(ctx context.Context, invoiceNumber string) (*PurchaseInvoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter InvoiceFilter) ([]PurchaseInvoice, error)

	// Save creates or updates an invoice together with its lines
	Save(ctx context.Context, invoice *PurchaseInvoice) error

	// DeleteItems removes the current lines of an invoice, used before
	// re-inserting the replacement set on edit
	DeleteItems(ctx context.Context, invoiceID uuid.UUID) error

	// Delete removes an invoice and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)

	// CountBySupplier counts invoices booked against a supplier
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// NextInvoiceNumber generates the next PI-YYYY-NNNN number for the
	// given year. Must be called inside the transaction that persists
	// the invoice.
	NextInvoiceNumber(ctx context.Context, year int) (string, error)

	// Summary aggregates invoice counts and totals by status
	Summary(ctx context.Context) (*InvoiceSummary, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByInvoice finds payments applied to an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)

	// FindAll finds payments matching the filter
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// Create appends a new payment
	Create(ctx context.Context, payment *Payment) error

	// Delete removes a payment
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter PaymentFilter) (int64, error)

	// CountByInvoice counts payments applied to an invoice
	CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)

	// NextPaymentNumber generates the next PAY-YYYY-NNNN number for the
	// given year. Must be called inside the transaction that persists
	// the payment.
	NextPaymentNumber(ctx context.Context, year int) (string, error)
}

// InvoiceFilter extends shared.Filter with invoice-specific filters
type InvoiceFilter struct {
	shared.Filter
	SupplierID *uuid.UUID
	Status     *PaymentStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// PaymentFilter extends shared.Filter with payment-specific filters
type PaymentFilter struct {
	shared.Filter
	SupplierID        *uuid.UUID
	AccountID         *uuid.UUID
	PurchaseInvoiceID *uuid.UUID
	DirectOnly        bool
	StartDate         *time.Time
	EndDate           *time.Time
}

// InvoiceSummary aggregates invoice statistics
type InvoiceSummary struct {
	TotalCount        int64           `json:"total_count"`
	UnpaidCount       int64           `json:"unpaid_count"`
	PartialCount      int64           `json:"partial_count"`
	PaidCount         int64           `json:"paid_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}
