package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// AccountService provides money account management. Creating an account
// with an opening balance books an opening credit entry, so the ledger
// alone reproduces the balance on replay.
type AccountService struct {
	scope       TransactionScope
	accountRepo finance.AccountRepository
	entryRepo   ledger.EntryRepository
}

// NewAccountService creates a new account service
func NewAccountService(scope TransactionScope, accountRepo finance.AccountRepository, entryRepo ledger.EntryRepository) *AccountService {
	return &AccountService{scope: scope, accountRepo: accountRepo, entryRepo: entryRepo}
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=CASH BANK"`
	BankName       *string         `json:"bank_name"`
	AccountNumber  *string         `json:"account_number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedBy      *uuid.UUID      `json:"-"`
}

// UpdateAccountRequest represents a request to update an account.
// Type and opening balance are fixed at creation.
type UpdateAccountRequest struct {
	Name          string  `json:"name" binding:"required"`
	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	BankName       *string         `json:"bank_name,omitempty"`
	AccountNumber  *string         `json:"account_number,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateAccount creates an account. A positive opening balance is
// recorded as an opening credit entry in the same transaction.
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	existing, err := s.accountRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("An account with this name already exists")
	}

	account, err := finance.NewAccount(req.Name, finance.AccountType(req.Type), req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if account.Type == finance.AccountBank || req.BankName != nil {
		bankName := ""
		if req.BankName != nil {
			bankName = *req.BankName
		}
		if _, err := account.WithBankDetails(bankName, req.AccountNumber); err != nil {
			return nil, err
		}
	}
	account.CreatedByID = req.CreatedBy

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}
		if account.OpeningBalance.IsPositive() {
			entry, err := ledger.NewCreditEntry(
				ledger.AccountRef(account.ID),
				account.OpeningBalance,
				decimal.Zero,
				"Opening Balance",
				account.CreatedAt,
			)
			if err != nil {
				return err
			}
			if req.CreatedBy != nil {
				entry.WithCreatedBy(*req.CreatedBy)
			}
			return repos.EntryRepo().Create(ctx, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetAccount returns a single account
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns accounts matching the filter
func (s *AccountService) ListAccounts(ctx context.Context, filter shared.Filter) (*shared.Paginated[AccountResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	accounts, err := s.accountRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.accountRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, *toAccountResponse(&accounts[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateAccount updates the account name and bank fields
func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != account.ID {
		return nil, shared.ErrAlreadyExists.WithMessage("An account with this name already exists")
	}

	if err := account.Rename(req.Name); err != nil {
		return nil, err
	}
	bankName := ""
	if req.BankName != nil {
		bankName = *req.BankName
	}
	if account.Type == finance.AccountBank || bankName != "" {
		if _, err := account.WithBankDetails(bankName, req.AccountNumber); err != nil {
			return nil, err
		}
	} else {
		account.BankName = nil
		account.AccountNumber = req.AccountNumber
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// DeleteAccount removes an account. Allowed only when the account has
// no ledger entries, or a single opening entry and a balance still
// equal to the opening balance.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		ref := ledger.AccountRef(id)
		entryCount, err := repos.EntryRepo().CountByEntity(ctx, ref)
		if err != nil {
			return err
		}
		switch {
		case entryCount == 0:
			// nothing booked yet
		case entryCount == 1 && account.HasOnlyOpeningActivity():
			entries, err := repos.EntryRepo().FindByEntityOrdered(ctx, ref)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if err := repos.EntryRepo().Delete(ctx, entry.ID); err != nil {
					return err
				}
			}
		default:
			return shared.ErrConflict.WithMessage("Accounts with transaction history cannot be deleted")
		}

		return repos.AccountRepo().Delete(ctx, id)
	})
}

// toAccountResponse maps a domain account to its response shape
func toAccountResponse(account *finance.Account) *AccountResponse {
	return &AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Type:           string(account.Type),
		BankName:       account.BankName,
		AccountNumber:  account.AccountNumber,
		OpeningBalance: account.OpeningBalance,
		CurrentBalance: account.CurrentBalance,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}
