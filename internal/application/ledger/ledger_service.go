package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// Service provides ledger postings and balance queries across the
// three financial entity kinds
type Service struct {
	scope     TransactionScope
	entryRepo ledger.EntryRepository
}

// NewService creates a new ledger service
func NewService(scope TransactionScope, entryRepo ledger.EntryRepository) *Service {
	return &Service{
		scope:     scope,
		entryRepo: entryRepo,
	}
}

// CreateEntryRequest represents a request to post a ledger entry.
// Exactly one of the entity IDs must be set.
type CreateEntryRequest struct {
	AccountID       *uuid.UUID      `json:"account_id"`
	SupplierID      *uuid.UUID      `json:"supplier_id"`
	CustomerID      *uuid.UUID      `json:"customer_id"`
	TransactionType string          `json:"transaction_type" binding:"required,oneof=CREDIT DEBIT"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"required"`
	ReferenceNumber *string         `json:"reference_number"`
	TransactionDate *time.Time      `json:"transaction_date"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// EntityRef builds the domain entity reference from the request
func (r CreateEntryRequest) EntityRef() ledger.EntityRef {
	return ledger.EntityRef{
		AccountID:  r.AccountID,
		SupplierID: r.SupplierID,
		CustomerID: r.CustomerID,
	}
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID                uuid.UUID       `json:"id"`
	EntityType        string          `json:"entity_type"`
	EntityID          uuid.UUID       `json:"entity_id"`
	TransactionType   string          `json:"transaction_type"`
	Amount            decimal.Decimal `json:"amount"`
	Balance           decimal.Decimal `json:"balance"`
	Description       string          `json:"description"`
	ReferenceNumber   *string         `json:"reference_number,omitempty"`
	PaymentID         *uuid.UUID      `json:"payment_id,omitempty"`
	PurchaseInvoiceID *uuid.UUID      `json:"purchase_invoice_id,omitempty"`
	ExpenseID         *uuid.UUID      `json:"expense_id,omitempty"`
	TransactionDate   time.Time       `json:"transaction_date"`
	CreatedAt         time.Time       `json:"created_at"`
}

// BalanceResponse represents an entity balance in API responses
type BalanceResponse struct {
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// balanceHolder is the common surface of accounts, suppliers and
// customers the ledger needs
type balanceHolder interface {
	Credit(amount decimal.Decimal) error
	Debit(amount decimal.Decimal) error
	SetBalance(balance decimal.Decimal)
}

// entityHandle bundles a loaded entity with its balances and a save
// closure bound to the owning repository
type entityHandle struct {
	entity         balanceHolder
	currentBalance decimal.Decimal
	// replayBase is the balance the ledger replay starts from. Accounts
	// replay from zero because their opening balance is itself an
	// opening-balance entry; suppliers and customers carry the opening
	// balance on the row only.
	replayBase decimal.Decimal
	save       func(ctx context.Context) error
}

// resolveEntity loads the referenced entity from the matching
// repository. Writers pass lock to hold the entity row until the
// transaction ends; the balance math reads then overwrites a single
// column, so concurrent postings must serialize on it.
func resolveEntity(ctx context.Context, repos TransactionalRepositories, ref ledger.EntityRef, lock bool) (*entityHandle, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	switch ref.Type() {
	case ledger.EntityAccount:
		find := repos.AccountRepo().FindByID
		if lock {
			find = repos.AccountRepo().FindByIDForUpdate
		}
		account, err := find(ctx, *ref.AccountID)
		if err != nil {
			return nil, err
		}
		return &entityHandle{
			entity:         account,
			currentBalance: account.CurrentBalance,
			replayBase:     decimal.Zero,
			save:           func(ctx context.Context) error { return repos.AccountRepo().Save(ctx, account) },
		}, nil
	case ledger.EntitySupplier:
		find := repos.SupplierRepo().FindByID
		if lock {
			find = repos.SupplierRepo().FindByIDForUpdate
		}
		supplier, err := find(ctx, *ref.SupplierID)
		if err != nil {
			return nil, err
		}
		return &entityHandle{
			entity:         supplier,
			currentBalance: supplier.CurrentBalance,
			replayBase:     supplier.OpeningBalance,
			save:           func(ctx context.Context) error { return repos.SupplierRepo().Save(ctx, supplier) },
		}, nil
	default:
		find := repos.CustomerRepo().FindByID
		if lock {
			find = repos.CustomerRepo().FindByIDForUpdate
		}
		customer, err := find(ctx, *ref.CustomerID)
		if err != nil {
			return nil, err
		}
		return &entityHandle{
			entity:         customer,
			currentBalance: customer.CurrentBalance,
			replayBase:     customer.OpeningBalance,
			save:           func(ctx context.Context) error { return repos.CustomerRepo().Save(ctx, customer) },
		}, nil
	}
}

// CreateEntry posts a ledger entry and moves the entity balance in the
// same transaction. Debits that exceed the current balance are rejected.
func (s *Service) CreateEntry(ctx context.Context, req CreateEntryRequest) (*EntryResponse, error) {
	txType := ledger.TransactionType(req.TransactionType)
	if !txType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Transaction type must be CREDIT or DEBIT")
	}

	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	var created *ledger.Entry
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		handle, err := resolveEntity(ctx, repos, req.EntityRef(), true)
		if err != nil {
			return err
		}

		var entry *ledger.Entry
		if txType == ledger.TransactionCredit {
			entry, err = ledger.NewCreditEntry(req.EntityRef(), req.Amount, handle.currentBalance, req.Description, transactionDate)
			if err != nil {
				return err
			}
			if err := handle.entity.Credit(req.Amount); err != nil {
				return err
			}
		} else {
			entry, err = ledger.NewDebitEntry(req.EntityRef(), req.Amount, handle.currentBalance, req.Description, transactionDate)
			if err != nil {
				return err
			}
			if err := handle.entity.Debit(req.Amount); err != nil {
				return err
			}
		}

		if req.ReferenceNumber != nil {
			entry.WithReference(*req.ReferenceNumber)
		}
		if req.CreatedBy != nil {
			entry.WithCreatedBy(*req.CreatedBy)
		}

		if err := handle.save(ctx); err != nil {
			return err
		}
		if err := repos.EntryRepo().Create(ctx, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toEntryResponse(created), nil
}

// RecalculateBalance replays all entries for an entity in transaction
// date order and overwrites the stored balance. Running it twice in a
// row yields the same result.
func (s *Service) RecalculateBalance(ctx context.Context, ref ledger.EntityRef) (*BalanceResponse, error) {
	var result *BalanceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		handle, err := resolveEntity(ctx, repos, ref, true)
		if err != nil {
			return err
		}

		entries, err := repos.EntryRepo().FindByEntityOrdered(ctx, ref)
		if err != nil {
			return err
		}

		balance := handle.replayBase
		for _, entry := range entries {
			balance = entry.ApplyTo(balance)
		}

		handle.entity.SetBalance(balance)
		if err := handle.save(ctx); err != nil {
			return err
		}

		result = &BalanceResponse{
			EntityType: string(ref.Type()),
			EntityID:   ref.EntityID(),
			Balance:    balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBalance returns the stored balance of an entity
func (s *Service) GetBalance(ctx context.Context, ref ledger.EntityRef) (*BalanceResponse, error) {
	var result *BalanceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		handle, err := resolveEntity(ctx, repos, ref, false)
		if err != nil {
			return err
		}
		result = &BalanceResponse{
			EntityType: string(ref.Type()),
			EntityID:   ref.EntityID(),
			Balance:    handle.currentBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LedgerQuery represents a request for an entity statement
type LedgerQuery struct {
	Page            int        `form:"page"`
	PageSize        int        `form:"page_size"`
	TransactionType *string    `form:"transaction_type" binding:"omitempty,oneof=CREDIT DEBIT"`
	StartDate       *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate         *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// GetLedger returns the paginated statement of an entity, ascending by
// transaction date
func (s *Service) GetLedger(ctx context.Context, ref ledger.EntityRef, query LedgerQuery) (*shared.Paginated[EntryResponse], error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	filter := ledger.EntryFilter{
		Filter: shared.Filter{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  "transaction_date",
			OrderDir: "asc",
		},
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if query.TransactionType != nil {
		txType := ledger.TransactionType(*query.TransactionType)
		filter.TransactionType = &txType
	}

	entries, err := s.entryRepo.FindByEntity(ctx, ref, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.CountByEntityFiltered(ctx, ref, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *toEntryResponse(&entries[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// toEntryResponse maps a domain entry to its response shape
func toEntryResponse(entry *ledger.Entry) *EntryResponse {
	ref := entry.EntityRef()
	return &EntryResponse{
		ID:                entry.ID,
		EntityType:        string(ref.Type()),
		EntityID:          ref.EntityID(),
		TransactionType:   entry.TransactionType.String(),
		Amount:            entry.Amount,
		Balance:           entry.Balance,
		Description:       entry.Description,
		ReferenceNumber:   entry.ReferenceNumber,
		PaymentID:         entry.PaymentID,
		PurchaseInvoiceID: entry.PurchaseInvoiceID,
		ExpenseID:         entry.ExpenseID,
		TransactionDate:   entry.TransactionDate,
		CreatedAt:         entry.CreatedAt,
	}
}
