package persistence

import (
	"context"

	appfin "github.com/workshoperp/backend/internal/application/finance"
	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormFinanceTransactionScope implements the finance TransactionScope
// using GORM transactions. An account balance change and its ledger
// entry commit or roll back together.
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfin.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormFinanceRepositories{tx: tx}
		return fn(repos)
	})
}

// gormFinanceRepositories provides repository access within a transaction
type gormFinanceRepositories struct {
	tx *gorm.DB
}

// AccountRepo returns the account repository scoped to the current transaction
func (r *gormFinanceRepositories) AccountRepo() finance.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// ExpenseRepo returns the expense repository scoped to the current transaction
func (r *gormFinanceRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

// CategoryRepo returns the expense category repository scoped to the current transaction
func (r *gormFinanceRepositories) CategoryRepo() finance.ExpenseCategoryRepository {
	return NewGormExpenseCategoryRepository(r.tx)
}

// EntryRepo returns the ledger entry repository scoped to the current transaction
func (r *gormFinanceRepositories) EntryRepo() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

// Ensure GormFinanceTransactionScope implements TransactionScope
var _ appfin.TransactionScope = (*GormFinanceTransactionScope)(nil)

// Ensure gormFinanceRepositories implements TransactionalRepositories
var _ appfin.TransactionalRepositories = (*gormFinanceRepositories)(nil)
