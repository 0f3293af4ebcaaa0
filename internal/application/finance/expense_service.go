package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// ExpenseService provides expense and expense category management.
// An expense debits its account through the ledger; deleting one books
// a compensating credit instead of erasing the paper trail.
type ExpenseService struct {
	scope        TransactionScope
	expenseRepo  finance.ExpenseRepository
	categoryRepo finance.ExpenseCategoryRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(scope TransactionScope, expenseRepo finance.ExpenseRepository, categoryRepo finance.ExpenseCategoryRepository) *ExpenseService {
	return &ExpenseService{scope: scope, expenseRepo: expenseRepo, categoryRepo: categoryRepo}
}

// CreateCategoryRequest represents a request to create an expense category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CategoryResponse represents an expense category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ExpenseDate time.Time       `json:"expense_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateCategory creates an expense category with a unique name
func (s *ExpenseService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists.WithMessage("An expense category with this name already exists")
	}

	category, err := finance.NewExpenseCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// ListCategories returns categories matching the filter
func (s *ExpenseService) ListCategories(ctx context.Context, filter shared.Filter) (*shared.Paginated[CategoryResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *toCategoryResponse(&categories[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCategory renames a category
func (s *ExpenseService) UpdateCategory(ctx context.Context, id uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != category.ID {
		return nil, shared.ErrAlreadyExists.WithMessage("An expense category with this name already exists")
	}

	updated, err := finance.NewExpenseCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	category.Name = updated.Name
	category.Description = updated.Description

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory removes a category. Categories with recorded expenses
// cannot be removed.
func (s *ExpenseService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.categoryRepo.CountExpenses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConflict.WithMessage("Categories with recorded expenses cannot be deleted")
	}

	return s.categoryRepo.Delete(ctx, id)
}

// CreateExpense records an expense, debits the paying account and books
// the matching ledger entry, all in one transaction
func (s *ExpenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	var created *finance.Expense
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.CategoryRepo().FindByID(ctx, req.CategoryID); err != nil {
			return err
		}
		account, err := repos.AccountRepo().FindByIDForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}

		expense, err := finance.NewExpense(req.CategoryID, req.AccountID, req.Amount, req.Description, req.ExpenseDate)
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			expense.WithCreatedBy(*req.CreatedBy)
		}

		balanceBefore := account.CurrentBalance
		if err := account.Debit(expense.Amount); err != nil {
			return err
		}

		entry, err := ledger.NewDebitEntry(
			ledger.AccountRef(account.ID),
			expense.Amount,
			balanceBefore,
			fmt.Sprintf("Expense: %s", expense.Description),
			expense.ExpenseDate,
		)
		if err != nil {
			return err
		}
		entry.WithExpense(expense.ID)
		if req.CreatedBy != nil {
			entry.WithCreatedBy(*req.CreatedBy)
		}

		if err := repos.ExpenseRepo().Save(ctx, expense); err != nil {
			return err
		}
		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.EntryRepo().Create(ctx, entry); err != nil {
			return err
		}
		created = expense
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(created), nil
}

// GetExpense returns a single expense
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// ListExpenses returns expenses matching the filter
func (s *ExpenseService) ListExpenses(ctx context.Context, filter finance.ExpenseFilter) (*shared.Paginated[ExpenseResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	expenses, err := s.expenseRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.expenseRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, *toExpenseResponse(&expenses[i]))
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DeleteExpense removes an expense and refunds its account through a
// compensating credit entry, in one transaction
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		expense, err := repos.ExpenseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		account, err := repos.AccountRepo().FindByIDForUpdate(ctx, expense.AccountID)
		if err != nil {
			return err
		}

		balanceBefore := account.CurrentBalance
		if err := account.Credit(expense.Amount); err != nil {
			return err
		}

		entry, err := ledger.NewCreditEntry(
			ledger.AccountRef(account.ID),
			expense.Amount,
			balanceBefore,
			fmt.Sprintf("Expense reversal: %s", expense.Description),
			time.Now(),
		)
		if err != nil {
			return err
		}
		entry.WithExpense(expense.ID)

		if err := repos.AccountRepo().Save(ctx, account); err != nil {
			return err
		}
		if err := repos.EntryRepo().Create(ctx, entry); err != nil {
			return err
		}
		return repos.ExpenseRepo().Delete(ctx, id)
	})
}

// toCategoryResponse maps a domain category to its response shape
func toCategoryResponse(category *finance.ExpenseCategory) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// toExpenseResponse maps a domain expense to its response shape
func toExpenseResponse(expense *finance.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:          expense.ID,
		CategoryID:  expense.CategoryID,
		AccountID:   expense.AccountID,
		Amount:      expense.Amount,
		Description: expense.Description,
		ExpenseDate: expense.ExpenseDate,
		CreatedAt:   expense.CreatedAt,
	}
}
