package ledger

import (
	"context"

	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the repositories a
// ledger posting touches. The entry append and the entity balance
// update always commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. All repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// EntryRepo returns the ledger entry repository scoped to the transaction
	EntryRepo() ledger.EntryRepository
	// AccountRepo returns the account repository scoped to the transaction
	AccountRepo() finance.AccountRepository
	// SupplierRepo returns the supplier repository scoped to the transaction
	SupplierRepo() partner.SupplierRepository
	// CustomerRepo returns the customer repository scoped to the transaction
	CustomerRepo() partner.CustomerRepository
}

// NoOpTransactionScope runs functions without a real transaction,
// for tests and in-memory setups.
type NoOpTransactionScope struct {
	entryRepo    ledger.EntryRepository
	accountRepo  finance.AccountRepository
	supplierRepo partner.SupplierRepository
	customerRepo partner.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	entryRepo ledger.EntryRepository,
	accountRepo finance.AccountRepository,
	supplierRepo partner.SupplierRepository,
	customerRepo partner.CustomerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// EntryRepo returns the ledger entry repository
func (s *NoOpTransactionScope) EntryRepo() ledger.EntryRepository { return s.entryRepo }

// AccountRepo returns the account repository
func (s *NoOpTransactionScope) AccountRepo() finance.AccountRepository { return s.accountRepo }

// SupplierRepo returns the supplier repository
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository { return s.supplierRepo }

// CustomerRepo returns the customer repository
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
