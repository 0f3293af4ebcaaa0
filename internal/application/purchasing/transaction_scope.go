package purchasing

import (
	"context"

	"github.com/workshoperp/backend/internal/domain/finance"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to everything a
// purchase document touches: the invoice and payment tables, item
// stock, the supplier and account balances, and the ledger. Booking an
// invoice is a single transaction across all of them.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the purchasing
// repositories within a transaction
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the transaction
	InvoiceRepo() purchasing.PurchaseInvoiceRepository
	// PaymentRepo returns the payment repository scoped to the transaction
	PaymentRepo() purchasing.PaymentRepository
	// ItemRepo returns the item repository scoped to the transaction
	ItemRepo() inventory.ItemRepository
	// AdjustmentRepo returns the adjustment repository scoped to the transaction
	AdjustmentRepo() inventory.StockAdjustmentRepository
	// SupplierRepo returns the supplier repository scoped to the transaction
	SupplierRepo() partner.SupplierRepository
	// AccountRepo returns the account repository scoped to the transaction
	AccountRepo() finance.AccountRepository
	// EntryRepo returns the ledger entry repository scoped to the transaction
	EntryRepo() ledger.EntryRepository
}

// NoOpTransactionScope runs functions without a real transaction,
// for tests and in-memory setups.
type NoOpTransactionScope struct {
	invoiceRepo    purchasing.PurchaseInvoiceRepository
	paymentRepo    purchasing.PaymentRepository
	itemRepo       inventory.ItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
	supplierRepo   partner.SupplierRepository
	accountRepo    finance.AccountRepository
	entryRepo      ledger.EntryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	invoiceRepo purchasing.PurchaseInvoiceRepository,
	paymentRepo purchasing.PaymentRepository,
	itemRepo inventory.ItemRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
	supplierRepo partner.SupplierRepository,
	accountRepo finance.AccountRepository,
	entryRepo ledger.EntryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:    invoiceRepo,
		paymentRepo:    paymentRepo,
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
		supplierRepo:   supplierRepo,
		accountRepo:    accountRepo,
		entryRepo:      entryRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() purchasing.PurchaseInvoiceRepository {
	return s.invoiceRepo
}

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() purchasing.PaymentRepository { return s.paymentRepo }

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository { return s.itemRepo }

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return s.adjustmentRepo
}

// SupplierRepo returns the supplier repository
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository { return s.supplierRepo }

// AccountRepo returns the account repository
func (s *NoOpTransactionScope) AccountRepo() finance.AccountRepository { return s.accountRepo }

// EntryRepo returns the ledger entry repository
func (s *NoOpTransactionScope) EntryRepo() ledger.EntryRepository { return s.entryRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
