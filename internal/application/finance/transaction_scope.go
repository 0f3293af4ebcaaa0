package finance

import (
	"context"

	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the finance
// repositories together with the ledger. An account balance change and
// its ledger entry always commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the finance repositories
// within a transaction
type TransactionalRepositories interface {
	// AccountRepo returns the account repository scoped to the transaction
	AccountRepo() finance.AccountRepository
	// ExpenseRepo returns the expense repository scoped to the transaction
	ExpenseRepo() finance.ExpenseRepository
	// CategoryRepo returns the expense category repository scoped to the transaction
	CategoryRepo() finance.ExpenseCategoryRepository
	// EntryRepo returns the ledger entry repository scoped to the transaction
	EntryRepo() ledger.EntryRepository
}

// NoOpTransactionScope runs functions without a real transaction,
// for tests and in-memory setups.
type NoOpTransactionScope struct {
	accountRepo  finance.AccountRepository
	expenseRepo  finance.ExpenseRepository
	categoryRepo finance.ExpenseCategoryRepository
	entryRepo    ledger.EntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	accountRepo finance.AccountRepository,
	expenseRepo finance.ExpenseRepository,
	categoryRepo finance.ExpenseCategoryRepository,
	entryRepo ledger.EntryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		accountRepo:  accountRepo,
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		entryRepo:    entryRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// AccountRepo returns the account repository
func (s *NoOpTransactionScope) AccountRepo() finance.AccountRepository { return s.accountRepo }

// ExpenseRepo returns the expense repository
func (s *NoOpTransactionScope) ExpenseRepo() finance.ExpenseRepository { return s.expenseRepo }

// CategoryRepo returns the expense category repository
func (s *NoOpTransactionScope) CategoryRepo() finance.ExpenseCategoryRepository {
	return s.categoryRepo
}

// EntryRepo returns the ledger entry repository
func (s *NoOpTransactionScope) EntryRepo() ledger.EntryRepository { return s.entryRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
