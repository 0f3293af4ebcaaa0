package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByIDForUpdate finds an account by its ID and locks the row
	// until the surrounding transaction ends. Use it before changing
	// the balance so concurrent writers serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByName finds an account by name, case-insensitively
	FindByName(ctx context.Context, name string) (*Account, error)

	// FindAll finds accounts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// Delete deletes an account
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts accounts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ExpenseCategoryRepository defines the interface for category persistence
type ExpenseCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseCategory, error)
	FindByName(ctx context.Context, name string) (*ExpenseCategory, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ExpenseCategory, error)
	Save(ctx context.Context, category *ExpenseCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountExpenses counts expenses recorded under a category
	CountExpenses(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)
}

// ExpenseFilter extends shared.Filter with expense-specific filters
type ExpenseFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	AccountID  *uuid.UUID
}
