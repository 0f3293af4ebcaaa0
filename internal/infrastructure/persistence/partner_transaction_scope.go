package persistence

import (
	"context"

	apppartner "github.com/workshoperp/backend/internal/application/partner"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormPartnerTransactionScope implements the partner TransactionScope
// using GORM transactions. Deletion guards and the delete itself run
// atomically.
type GormPartnerTransactionScope struct {
	db *gorm.DB
}

// NewGormPartnerTransactionScope creates a new GormPartnerTransactionScope
func NewGormPartnerTransactionScope(db *gorm.DB) *GormPartnerTransactionScope {
	return &GormPartnerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPartnerTransactionScope) Execute(ctx context.Context, fn func(repos apppartner.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormPartnerRepositories{tx: tx}
		return fn(repos)
	})
}

// gormPartnerRepositories provides repository access within a transaction
type gormPartnerRepositories struct {
	tx *gorm.DB
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormPartnerRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction
func (r *gormPartnerRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// EntryRepo returns the ledger entry repository scoped to the current transaction
func (r *gormPartnerRepositories) EntryRepo() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

// InvoiceRepo returns the purchase invoice repository scoped to the current transaction
func (r *gormPartnerRepositories) InvoiceRepo() purchasing.PurchaseInvoiceRepository {
	return NewGormPurchaseInvoiceRepository(r.tx)
}

// Ensure GormPartnerTransactionScope implements TransactionScope
var _ apppartner.TransactionScope = (*GormPartnerTransactionScope)(nil)

// Ensure gormPartnerRepositories implements TransactionalRepositories
var _ apppartner.TransactionalRepositories = (*gormPartnerRepositories)(nil)
