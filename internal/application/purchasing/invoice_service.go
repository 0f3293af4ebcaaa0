package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// InvoiceService orchestrates the purchase invoice workflow. Booking an
// invoice numbers it, receives every line into stock, raises the
// supplier payable and writes the ledger trail in one transaction; an
// optional immediate payment settles part of it in the same breath.
type InvoiceService struct {
	scope       TransactionScope
	invoiceRepo purchasing.PurchaseInvoiceRepository
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(scope TransactionScope, invoiceRepo purchasing.PurchaseInvoiceRepository) *InvoiceService {
	return &InvoiceService{scope: scope, invoiceRepo: invoiceRepo}
}

// InvoiceLineRequest is one line of an invoice request
type InvoiceLineRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// InlinePaymentRequest is an immediate payment booked with the invoice
type InlinePaymentRequest struct {
	AccountID uuid.UUID       `json:"account_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Notes     *string         `json:"notes"`
}

// CreateInvoiceRequest represents a request to book a purchase invoice
type CreateInvoiceRequest struct {
	SupplierID  uuid.UUID             `json:"supplier_id" binding:"required"`
	InvoiceDate time.Time             `json:"invoice_date" binding:"required"`
	Lines       []InvoiceLineRequest  `json:"lines" binding:"required,min=1,dive"`
	TaxAmount   decimal.Decimal       `json:"tax_amount"`
	Discount    decimal.Decimal       `json:"discount"`
	Notes       *string               `json:"notes"`
	Payment     *InlinePaymentRequest `json:"payment"`
	CreatedBy   *uuid.UUID            `json:"-"`
}

// UpdateInvoiceRequest replaces the lines of an unpaid invoice
type UpdateInvoiceRequest struct {
	Lines     []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
	TaxAmount decimal.Decimal      `json:"tax_amount"`
	Discount  decimal.Decimal      `json:"discount"`
	Notes     *string              `json:"notes"`
}

// InvoiceLineResponse represents an invoice line in API responses
type InvoiceLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceResponse represents a purchase invoice in API responses
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	SupplierID     uuid.UUID             `json:"supplier_id"`
	InvoiceDate    time.Time             `json:"invoice_date"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	Status         string                `json:"status"`
	Notes          *string               `json:"notes,omitempty"`
	Lines          []InvoiceLineResponse `json:"lines"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// CreateInvoice books a purchase invoice: every line is received into
// stock at its unit price, the supplier payable rises by the total, and
// an optional inline payment settles part of it immediately. The whole
// workflow commits or rolls back as one.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	lines := toDomainLines(req.Lines)

	var created *purchasing.PurchaseInvoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, req.SupplierID)
		if err != nil {
			return err
		}

		invoiceNumber, err := repos.InvoiceRepo().NextInvoiceNumber(ctx, req.InvoiceDate.Year())
		if err != nil {
			return err
		}

		invoice, err := purchasing.NewPurchaseInvoice(invoiceNumber, req.SupplierID, req.InvoiceDate, lines, req.TaxAmount, req.Discount)
		if err != nil {
			return err
		}
		if req.Notes != nil {
			invoice.WithNotes(*req.Notes)
		}
		if req.CreatedBy != nil {
			invoice.WithCreatedBy(*req.CreatedBy)
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}

		if err := receiveInvoiceStock(ctx, repos, invoice, req.CreatedBy); err != nil {
			return err
		}

		supplierBalanceBefore := supplier.CurrentBalance
		if err := supplier.Credit(invoice.TotalAmount); err != nil {
			return err
		}
		supplierEntry, err := ledger.NewCreditEntry(
			ledger.SupplierRef(supplier.ID),
			invoice.TotalAmount,
			supplierBalanceBefore,
			fmt.Sprintf("Purchase invoice %s", invoice.InvoiceNumber),
			invoice.InvoiceDate,
		)
		if err != nil {
			return err
		}
		supplierEntry.WithPurchaseInvoice(invoice.ID).WithReference(invoice.InvoiceNumber)
		if req.CreatedBy != nil {
			supplierEntry.WithCreatedBy(*req.CreatedBy)
		}
		if err := repos.EntryRepo().Create(ctx, supplierEntry); err != nil {
			return err
		}

		if req.Payment != nil {
			if _, err := bookPayment(ctx, repos, bookPaymentParams{
				supplier:    supplier,
				invoice:     invoice,
				accountID:   req.Payment.AccountID,
				amount:      req.Payment.Amount,
				paymentDate: req.InvoiceDate,
				notes:       req.Payment.Notes,
				createdBy:   req.CreatedBy,
			}); err != nil {
				return err
			}
			if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
				return err
			}
		}

		if err := repos.SupplierRepo().Save(ctx, supplier); err != nil {
			return err
		}
		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(created), nil
}

// GetInvoice returns a single invoice with its lines
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

// ListInvoices returns invoices matching the filter
func (s *InvoiceService) ListInvoices(ctx context.Context, filter purchasing.InvoiceFilter) (*shared.Paginated[InvoiceResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, *toInvoiceResponse(&invoices[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetSummary aggregates invoice counts and totals by payment status
func (s *InvoiceService) GetSummary(ctx context.Context) (*purchasing.InvoiceSummary, error) {
	return s.invoiceRepo.Summary(ctx)
}

// UpdateInvoice replaces the lines of an invoice that has no payments.
// The old stock receipt is unwound, the new lines are received, the
// supplier payable shifts by the total difference and the original
// ledger entry is rewritten to the new total.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	lines := toDomainLines(req.Lines)

	var updated *purchasing.PurchaseInvoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !invoice.IsEditable() {
			return shared.ErrConflict.WithMessage("Only unpaid invoices without payments can be edited")
		}
		paymentCount, err := repos.PaymentRepo().CountByInvoice(ctx, id)
		if err != nil {
			return err
		}
		if paymentCount > 0 {
			return shared.ErrConflict.WithMessage("Only unpaid invoices without payments can be edited")
		}

		if err := unwindInvoiceStock(ctx, repos, invoice); err != nil {
			return err
		}
		if err := repos.AdjustmentRepo().DeleteByPurchaseInvoice(ctx, id); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().DeleteItems(ctx, id); err != nil {
			return err
		}

		oldTotal := invoice.TotalAmount
		if err := invoice.ReplaceLines(lines, req.TaxAmount, req.Discount); err != nil {
			return err
		}
		if req.Notes != nil {
			invoice.WithNotes(*req.Notes)
		}

		if err := receiveInvoiceStock(ctx, repos, invoice, invoice.CreatedByID); err != nil {
			return err
		}

		difference := invoice.TotalAmount.Sub(oldTotal)
		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, invoice.SupplierID)
		if err != nil {
			return err
		}
		supplier.Adjust(difference)
		if err := repos.SupplierRepo().Save(ctx, supplier); err != nil {
			return err
		}

		entries, err := repos.EntryRepo().FindByPurchaseInvoice(ctx, id)
		if err != nil {
			return err
		}
		for i := range entries {
			entry := &entries[i]
			if entry.SupplierID == nil || entry.TransactionType != ledger.TransactionCredit {
				continue
			}
			entry.Amount = invoice.TotalAmount
			entry.Balance = entry.Balance.Add(difference)
			entry.Description = fmt.Sprintf("Purchase invoice %s", invoice.InvoiceNumber)
			if err := repos.EntryRepo().Update(ctx, entry); err != nil {
				return err
			}
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(updated), nil
}

// DeleteInvoice removes an invoice that has no payments, pulling the
// received stock back out and lowering the supplier payable. The
// adjustment and ledger rows linked to the invoice go with it.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		paymentCount, err := repos.PaymentRepo().CountByInvoice(ctx, id)
		if err != nil {
			return err
		}
		if paymentCount > 0 || !invoice.PaidAmount.IsZero() {
			return shared.ErrConflict.WithMessage("Invoices with payments cannot be deleted")
		}

		if err := unwindInvoiceStock(ctx, repos, invoice); err != nil {
			return err
		}

		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, invoice.SupplierID)
		if err != nil {
			return err
		}
		supplier.Adjust(invoice.TotalAmount.Neg())
		if err := repos.SupplierRepo().Save(ctx, supplier); err != nil {
			return err
		}

		if err := repos.AdjustmentRepo().DeleteByPurchaseInvoice(ctx, id); err != nil {
			return err
		}
		if err := repos.EntryRepo().DeleteByPurchaseInvoice(ctx, id); err != nil {
			return err
		}
		return repos.InvoiceRepo().Delete(ctx, id)
	})
}

// receiveInvoiceStock receives every invoice line into stock and records
// an adjustment per line
func receiveInvoiceStock(ctx context.Context, repos TransactionalRepositories, invoice *purchasing.PurchaseInvoice, createdBy *uuid.UUID) error {
	for _, line := range invoice.Items {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, line.ItemID)
		if err != nil {
			return err
		}
		quantityBefore := item.Quantity
		if err := item.AddStock(line.Quantity, line.UnitPrice); err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}

		adjustment, err := inventory.NewStockAdjustment(
			item.ID,
			line.Quantity,
			quantityBefore,
			item.AvgPrice,
			fmt.Sprintf("Received via purchase invoice %s", invoice.InvoiceNumber),
		)
		if err != nil {
			return err
		}
		adjustment.WithPurchaseInvoice(invoice.ID)
		if createdBy != nil {
			adjustment.WithCreatedBy(*createdBy)
		}
		if err := repos.AdjustmentRepo().Create(ctx, adjustment); err != nil {
			return err
		}
	}
	return nil
}

// unwindInvoiceStock removes the received quantities from stock,
// keeping each item's average price
func unwindInvoiceStock(ctx context.Context, repos TransactionalRepositories, invoice *purchasing.PurchaseInvoice) error {
	for _, line := range invoice.Items {
		item, err := repos.ItemRepo().FindByIDForUpdate(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if err := item.RemoveStock(line.Quantity); err != nil {
			return err
		}
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// toDomainLines maps request lines to domain invoice lines
func toDomainLines(lines []InvoiceLineRequest) []purchasing.InvoiceLine {
	domainLines := make([]purchasing.InvoiceLine, 0, len(lines))
	for _, line := range lines {
		domainLines = append(domainLines, purchasing.InvoiceLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return domainLines
}

// toInvoiceResponse maps a domain invoice to its response shape
func toInvoiceResponse(invoice *purchasing.PurchaseInvoice) *InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		lines = append(lines, InvoiceLineResponse{
			ID:        item.ID,
			ItemID:    item.ItemID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return &InvoiceResponse{
		ID:             invoice.ID,
		InvoiceNumber:  invoice.InvoiceNumber,
		SupplierID:     invoice.SupplierID,
		InvoiceDate:    invoice.InvoiceDate,
		Subtotal:       invoice.Subtotal,
		TaxAmount:      invoice.TaxAmount,
		DiscountAmount: invoice.DiscountAmount,
		TotalAmount:    invoice.TotalAmount,
		PaidAmount:     invoice.PaidAmount,
		Status:         string(invoice.Status),
		Notes:          invoice.Notes,
		Lines:          lines,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}
