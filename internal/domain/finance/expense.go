package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// ExpenseCategory groups expenses for reporting
type ExpenseCategory struct {
	shared.BaseEntity
	Name        string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description *string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// NewExpenseCategory creates a new expense category
func NewExpenseCategory(name string, description *string) (*ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Category name is required")
	}
	return &ExpenseCategory{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
	}, nil
}

// Expense is an operating cost paid out of an account. The matching
// account debit lives in the ledger; deleting an expense writes a
// compensating credit instead of erasing history.
type Expense struct {
	shared.BaseAggregateRoot
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	CreatedByID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense record
func NewExpense(categoryID, accountID uuid.UUID, amount decimal.Decimal, description string, expenseDate time.Time) (*Expense, error) {
	if categoryID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Expense category is required")
	}
	if accountID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("Expense account is required")
	}
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("Expense amount must be positive")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Expense description is required")
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		AccountID:         accountID,
		Amount:            amount,
		Description:       description,
		ExpenseDate:       expenseDate,
	}, nil
}

// WithCreatedBy records the admin who created the expense
func (e *Expense) WithCreatedBy(adminID uuid.UUID) *Expense {
	e.CreatedByID = &adminID
	return e
}
