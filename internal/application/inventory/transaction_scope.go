package inventory

import (
	"context"

	"github.com/workshoperp/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the inventory
// repositories. An item mutation and its adjustment record always
// commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory
// repositories within a transaction
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the transaction
	ItemRepo() inventory.ItemRepository
	// AdjustmentRepo returns the adjustment repository scoped to the transaction
	AdjustmentRepo() inventory.StockAdjustmentRepository
}

// NoOpTransactionScope runs functions without a real transaction,
// for tests and in-memory setups.
type NoOpTransactionScope struct {
	itemRepo       inventory.ItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(itemRepo inventory.ItemRepository, adjustmentRepo inventory.StockAdjustmentRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{itemRepo: itemRepo, adjustmentRepo: adjustmentRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository { return s.itemRepo }

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return s.adjustmentRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
