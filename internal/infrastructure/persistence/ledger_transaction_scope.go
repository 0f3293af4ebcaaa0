package persistence

import (
	"context"

	appledger "github.com/workshoperp/backend/internal/application/ledger"
	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger TransactionScope
// using GORM transactions. An entry append and the entity balance
// update commit or roll back together.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLedgerRepositories{tx: tx}
		return fn(repos)
	})
}

// gormLedgerRepositories provides repository access within a transaction
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// EntryRepo returns the ledger entry repository scoped to the current transaction
func (r *gormLedgerRepositories) EntryRepo() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

// AccountRepo returns the account repository scoped to the current transaction
func (r *gormLedgerRepositories) AccountRepo() finance.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormLedgerRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormLedgerRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// Ensure GormLedgerTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)

// Ensure gormLedgerRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
