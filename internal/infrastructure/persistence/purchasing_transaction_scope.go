package persistence

import (
	"context"

	apppur "github.com/workshoperp/backend/internal/application/purchasing"
	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormPurchasingTransactionScope implements the purchasing
// TransactionScope using GORM transactions. Booking an invoice touches
// the invoice, stock, the supplier balance, the paying account, and
// the ledger in one transaction.
type GormPurchasingTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchasingTransactionScope creates a new GormPurchasingTransactionScope
func NewGormPurchasingTransactionScope(db *gorm.DB) *GormPurchasingTransactionScope {
	return &GormPurchasingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPurchasingTransactionScope) Execute(ctx context.Context, fn func(repos apppur.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormPurchasingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormPurchasingRepositories provides repository access within a transaction
type gormPurchasingRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormPurchasingRepositories) InvoiceRepo() purchasing.PurchaseInvoiceRepository {
	return NewGormPurchaseInvoiceRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction
func (r *gormPurchasingRepositories) PaymentRepo() purchasing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// ItemRepo returns the item repository scoped to the current transaction
func (r *gormPurchasingRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormPurchasingRepositories) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction
func (r *gormPurchasingRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// AccountRepo returns the account repository scoped to the current transaction
func (r *gormPurchasingRepositories) AccountRepo() finance.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

// EntryRepo returns the ledger entry repository scoped to the current transaction
func (r *gormPurchasingRepositories) EntryRepo() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

// Ensure GormPurchasingTransactionScope implements TransactionScope
var _ apppur.TransactionScope = (*GormPurchasingTransactionScope)(nil)

// Ensure gormPurchasingRepositories implements TransactionalRepositories
var _ apppur.TransactionalRepositories = (*gormPurchasingRepositories)(nil)
