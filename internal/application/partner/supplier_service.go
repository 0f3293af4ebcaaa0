package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// SupplierService provides supplier management and statements
type SupplierService struct {
	scope        TransactionScope
	supplierRepo partner.SupplierRepository
	invoiceRepo  purchasing.PurchaseInvoiceRepository
	paymentRepo  purchasing.PaymentRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(
	scope TransactionScope,
	supplierRepo partner.SupplierRepository,
	invoiceRepo purchasing.PurchaseInvoiceRepository,
	paymentRepo purchasing.PaymentRepository,
) *SupplierService {
	return &SupplierService{
		scope:        scope,
		supplierRepo: supplierRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
	}
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name           string          `json:"name" binding:"required"`
	ContactPerson  *string         `json:"contact_person"`
	Phone          *string         `json:"phone"`
	Email          *string         `json:"email" binding:"omitempty,email"`
	Address        *string         `json:"address"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// UpdateSupplierRequest represents a request to update a supplier.
// Balances are not editable; they move only through ledger entries.
type UpdateSupplierRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	ContactPerson  *string         `json:"contact_person,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Email          *string         `json:"email,omitempty"`
	Address        *string         `json:"address,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// StatementInvoice is one invoice row of a supplier statement
type StatementInvoice struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        string          `json:"status"`
}

// StatementPayment is one payment row of a supplier statement
type StatementPayment struct {
	ID            uuid.UUID       `json:"id"`
	PaymentNumber string          `json:"payment_number"`
	PaymentDate   time.Time       `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	InvoiceLinked bool            `json:"invoice_linked"`
}

// SupplierStatement summarizes a supplier's trading history
type SupplierStatement struct {
	Supplier            SupplierResponse   `json:"supplier"`
	Invoices            []StatementInvoice `json:"invoices"`
	Payments            []StatementPayment `json:"payments"`
	InvoiceCount        int                `json:"invoice_count"`
	PaymentCount        int                `json:"payment_count"`
	UnpaidInvoiceCount  int                `json:"unpaid_invoice_count"`
	PartialInvoiceCount int                `json:"partial_invoice_count"`
	OutstandingBalance  decimal.Decimal    `json:"outstanding_balance"`
}

// CreateSupplier creates a supplier with current balance equal to the
// opening balance
func (s *SupplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	supplier.UpdateContact(req.ContactPerson, req.Phone, req.Email, req.Address)
	supplier.CreatedByID = req.CreatedBy

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetSupplier returns a single supplier
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// ListSuppliers returns suppliers matching the filter
func (s *SupplierService) ListSuppliers(ctx context.Context, filter shared.Filter) (*shared.Paginated[SupplierResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, *toSupplierResponse(&suppliers[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateSupplier updates the supplier contact fields
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Rename(req.Name); err != nil {
		return nil, err
	}
	supplier.UpdateContact(req.ContactPerson, req.Phone, req.Email, req.Address)

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// DeleteSupplier removes a supplier. Suppliers with ledger history or
// booked invoices cannot be removed.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.SupplierRepo().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}

		entryCount, err := repos.EntryRepo().CountByEntity(ctx, ledger.SupplierRef(id))
		if err != nil {
			return err
		}
		if entryCount > 0 {
			return shared.ErrConflict.WithMessage("Suppliers with ledger history cannot be deleted")
		}

		invoiceCount, err := repos.InvoiceRepo().CountBySupplier(ctx, id)
		if err != nil {
			return err
		}
		if invoiceCount > 0 {
			return shared.ErrConflict.WithMessage("Suppliers with invoices cannot be deleted")
		}

		return repos.SupplierRepo().Delete(ctx, id)
	})
}

// GetStatement returns the trading history of a supplier
func (s *SupplierService) GetStatement(ctx context.Context, id uuid.UUID) (*SupplierStatement, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoiceFilter := purchasing.InvoiceFilter{
		Filter:     shared.Filter{Page: 1, PageSize: 1000, OrderBy: "invoice_date", OrderDir: "desc"},
		SupplierID: &id,
	}
	invoices, err := s.invoiceRepo.FindAll(ctx, invoiceFilter)
	if err != nil {
		return nil, err
	}

	paymentFilter := purchasing.PaymentFilter{
		Filter:     shared.Filter{Page: 1, PageSize: 1000, OrderBy: "payment_date", OrderDir: "desc"},
		SupplierID: &id,
	}
	payments, err := s.paymentRepo.FindAll(ctx, paymentFilter)
	if err != nil {
		return nil, err
	}

	statement := &SupplierStatement{
		Supplier:           *toSupplierResponse(supplier),
		Invoices:           make([]StatementInvoice, 0, len(invoices)),
		Payments:           make([]StatementPayment, 0, len(payments)),
		InvoiceCount:       len(invoices),
		PaymentCount:       len(payments),
		OutstandingBalance: supplier.CurrentBalance,
	}
	for _, invoice := range invoices {
		statement.Invoices = append(statement.Invoices, StatementInvoice{
			ID:            invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			InvoiceDate:   invoice.InvoiceDate,
			TotalAmount:   invoice.TotalAmount,
			PaidAmount:    invoice.PaidAmount,
			Status:        string(invoice.Status),
		})
		switch invoice.Status {
		case purchasing.StatusUnpaid:
			statement.UnpaidInvoiceCount++
		case purchasing.StatusPartial:
			statement.PartialInvoiceCount++
		}
	}
	for _, payment := range payments {
		statement.Payments = append(statement.Payments, StatementPayment{
			ID:            payment.ID,
			PaymentNumber: payment.PaymentNumber,
			PaymentDate:   payment.PaymentDate,
			Amount:        payment.Amount,
			InvoiceLinked: !payment.IsDirect(),
		})
	}
	return statement, nil
}

// toSupplierResponse maps a domain supplier to its response shape
func toSupplierResponse(supplier *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:             supplier.ID,
		Name:           supplier.Name,
		ContactPerson:  supplier.ContactPerson,
		Phone:          supplier.Phone,
		Email:          supplier.Email,
		Address:        supplier.Address,
		OpeningBalance: supplier.OpeningBalance,
		CurrentBalance: supplier.CurrentBalance,
		CreatedAt:      supplier.CreatedAt,
		UpdatedAt:      supplier.UpdatedAt,
	}
}
