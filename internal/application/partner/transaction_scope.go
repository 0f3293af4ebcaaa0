package partner

import (
	"context"

	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/partner"
	"github.com/workshoperp/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the partner
// repositories together with the ledger, so deletion checks and the
// delete itself happen atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the partner repositories
// within a transaction
type TransactionalRepositories interface {
	// SupplierRepo returns the supplier repository scoped to the transaction
	SupplierRepo() partner.SupplierRepository
	// CustomerRepo returns the customer repository scoped to the transaction
	CustomerRepo() partner.CustomerRepository
	// EntryRepo returns the ledger entry repository scoped to the transaction
	EntryRepo() ledger.EntryRepository
	// InvoiceRepo returns the purchase invoice repository scoped to the
	// transaction, for supplier deletion guards
	InvoiceRepo() purchasing.PurchaseInvoiceRepository
}

// NoOpTransactionScope runs functions without a real transaction,
// for tests and in-memory setups.
type NoOpTransactionScope struct {
	supplierRepo partner.SupplierRepository
	customerRepo partner.CustomerRepository
	entryRepo    ledger.EntryRepository
	invoiceRepo  purchasing.PurchaseInvoiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	supplierRepo partner.SupplierRepository,
	customerRepo partner.CustomerRepository,
	entryRepo ledger.EntryRepository,
	invoiceRepo purchasing.PurchaseInvoiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		entryRepo:    entryRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SupplierRepo returns the supplier repository
func (s *NoOpTransactionScope) SupplierRepo() partner.SupplierRepository { return s.supplierRepo }

// CustomerRepo returns the customer repository
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository { return s.customerRepo }

// EntryRepo returns the ledger entry repository
func (s *NoOpTransactionScope) EntryRepo() ledger.EntryRepository { return s.entryRepo }

// InvoiceRepo returns the purchase invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() purchasing.PurchaseInvoiceRepository {
	return s.invoiceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
