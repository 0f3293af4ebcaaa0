package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// PaymentService orchestrates supplier payments. A payment lowers both
// the supplier payable and the paying account, each with its own ledger
// entry, in one transaction.
type PaymentService struct {
	scope       TransactionScope
	paymentRepo purchasing.PaymentRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(scope TransactionScope, paymentRepo purchasing.PaymentRepository) *PaymentService {
	return &PaymentService{scope: scope, paymentRepo: paymentRepo}
}

// CreatePaymentRequest represents a request to pay a supplier. With an
// invoice ID the payment settles that invoice; without one it settles
// the supplier's outstanding balance directly.
type CreatePaymentRequest struct {
	SupplierID        uuid.UUID       `json:"supplier_id" binding:"required"`
	AccountID         uuid.UUID       `json:"account_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate       time.Time       `json:"payment_date" binding:"required"`
	PurchaseInvoiceID *uuid.UUID      `json:"purchase_invoice_id"`
	Notes             *string         `json:"notes"`
	CreatedBy         *uuid.UUID      `json:"-"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	PaymentNumber     string          `json:"payment_number"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	AccountID         uuid.UUID       `json:"account_id"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentDate       time.Time       `json:"payment_date"`
	PurchaseInvoiceID *uuid.UUID      `json:"purchase_invoice_id,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// bookPaymentParams carries everything bookPayment needs
type bookPaymentParams struct {
	supplier    *partner.Supplier
	invoice     *purchasing.PurchaseInvoice
	accountID   uuid.UUID
	amount      decimal.Decimal
	paymentDate time.Time
	notes       *string
	createdBy   *uuid.UUID
}

// bookPayment numbers and records a payment, debits the supplier and the
// paying account and writes both ledger entries. The caller saves the
// supplier and, when linked, the invoice.
func bookPayment(ctx context.Context, repos TransactionalRepositories, params bookPaymentParams) (*purchasing.Payment, error) {
	paymentNumber, err := repos.PaymentRepo().NextPaymentNumber(ctx, params.paymentDate.Year())
	if err != nil {
		return nil, err
	}

	payment, err := purchasing.NewPayment(paymentNumber, params.supplier.ID, params.accountID, params.amount, params.paymentDate)
	if err != nil {
		return nil, err
	}
	if params.invoice != nil {
		payment.WithPurchaseInvoice(params.invoice.ID)
		if err := params.invoice.RegisterPayment(params.amount); err != nil {
			return nil, err
		}
	}
	if params.notes != nil {
		payment.WithNotes(*params.notes)
	}
	if params.createdBy != nil {
		payment.WithCreatedBy(*params.createdBy)
	}

	supplierBalanceBefore := params.supplier.CurrentBalance
	if err := params.supplier.Debit(params.amount); err != nil {
		return nil, err
	}
	supplierEntry, err := ledger.NewDebitEntry(
		ledger.SupplierRef(params.supplier.ID),
		params.amount,
		supplierBalanceBefore,
		fmt.Sprintf("Payment %s", paymentNumber),
		params.paymentDate,
	)
	if err != nil {
		return nil, err
	}
	supplierEntry.WithPayment(payment.ID).WithReference(paymentNumber)
	if params.createdBy != nil {
		supplierEntry.WithCreatedBy(*params.createdBy)
	}

	account, err := repos.AccountRepo().FindByIDForUpdate(ctx, params.accountID)
	if err != nil {
		return nil, err
	}
	accountBalanceBefore := account.CurrentBalance
	if err := account.Debit(params.amount); err != nil {
		return nil, err
	}
	accountEntry, err := ledger.NewDebitEntry(
		ledger.AccountRef(account.ID),
		params.amount,
		accountBalanceBefore,
		fmt.Sprintf("Payment %s to %s", paymentNumber, params.supplier.Name),
		params.paymentDate,
	)
	if err != nil {
		return nil, err
	}
	accountEntry.WithPayment(payment.ID).WithReference(paymentNumber)
	if params.createdBy != nil {
		accountEntry.WithCreatedBy(*params.createdBy)
	}

	if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
		return nil, err
	}
	if err := repos.AccountRepo().Save(ctx, account); err != nil {
		return nil, err
	}
	if err := repos.EntryRepo().Create(ctx, supplierEntry); err != nil {
		return nil, err
	}
	if err := repos.EntryRepo().Create(ctx, accountEntry); err != nil {
		return nil, err
	}
	return payment, nil
}

// CreatePayment pays a supplier. Invoice-linked payments roll the
// invoice status forward; direct payments require an outstanding
// supplier balance that covers the amount.
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	var created *purchasing.Payment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, req.SupplierID)
		if err != nil {
			return err
		}

		var invoice *purchasing.PurchaseInvoice
		if req.PurchaseInvoiceID != nil {
			invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, *req.PurchaseInvoiceID)
			if err != nil {
				return err
			}
			if invoice.SupplierID != supplier.ID {
				return shared.ErrInvalidInput.WithMessage("Invoice does not belong to this supplier")
			}
		} else if supplier.CurrentBalance.IsZero() {
			return shared.ErrConflict.WithMessage("Supplier has no outstanding balance to settle")
		}

		payment, err := bookPayment(ctx, repos, bookPaymentParams{
			supplier:    supplier,
			invoice:     invoice,
			accountID:   req.AccountID,
			amount:      req.Amount,
			paymentDate: req.PaymentDate,
			notes:       req.Notes,
			createdBy:   req.CreatedBy,
		})
		if err != nil {
			return err
		}

		if err := repos.SupplierRepo().Save(ctx, supplier); err != nil {
			return err
		}
		if invoice != nil {
			if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
				return err
			}
		}
		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(created), nil
}

// GetPayment returns a single payment
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// ListPayments returns payments matching the filter
func (s *PaymentService) ListPayments(ctx context.Context, filter purchasing.PaymentFilter) (*shared.Paginated[PaymentResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, *toPaymentResponse(&payments[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DeletePayment reverses a direct payment: the supplier payable and the
// account balance are restored and both ledger entries removed.
// Invoice-linked payments are part of the invoice history and stay.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !payment.IsDirect() {
			return shared.ErrConflict.WithMessage("Payments linked to an invoice cannot be deleted")
		}

		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, payment.SupplierID)
		if err != nil {
			return err
		}
		if err := supplier.Credit(payment.Amount); err != nil {
			return err
		}
		if err := repos.SupplierRepo().Save(ctx, supplier); err != nil {
			return err
		}

		account, err := repos.AccountRepo().FindByIDForUpdate(ctx, payment.AccountID)
		if err != nil {
			return err
		}
		if err := account.Credit(payment.Amount); err != nil {
			return err
		}
		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}

		entries, err := repos.EntryRepo().FindByPayment(ctx, payment.ID)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := repos.EntryRepo().Delete(ctx, entry.ID); err != nil {
				return err
			}
		}
		return repos.PaymentRepo().Delete(ctx, id)
	})
}

// toPaymentResponse maps a domain payment to its response shape
func toPaymentResponse(payment *purchasing.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                payment.ID,
		PaymentNumber:     payment.PaymentNumber,
		SupplierID:        payment.SupplierID,
		AccountID:         payment.AccountID,
		Amount:            payment.Amount,
		PaymentDate:       payment.PaymentDate,
		PurchaseInvoiceID: payment.PurchaseInvoiceID,
		Notes:             payment.Notes,
		CreatedAt:         payment.CreatedAt,
	}
}
