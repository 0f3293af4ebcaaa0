package production

import (
	"context"

	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the production
// repositories together with inventory. Starting a batch deducts stock
// and completing one receives finished goods, each as one transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the production
// repositories within a transaction
type TransactionalRepositories interface {
	// ProductionRepo returns the production repository scoped to the transaction
	ProductionRepo() production.ProductionRepository
	// RecipeRepo returns the recipe repository scoped to the transaction
	RecipeRepo() production.RecipeRepository
	// ItemRepo returns the item repository scoped to the transaction
	ItemRepo() inventory.ItemRepository
	// AdjustmentRepo returns the adjustment repository scoped to the transaction
	AdjustmentRepo() inventory.StockAdjustmentRepository
}

// NoOpTransactionScope runs functions without a real transaction,
// for tests and in-memory setups.
type NoOpTransactionScope struct {
	productionRepo production.ProductionRepository
	recipeRepo     production.RecipeRepository
	itemRepo       inventory.ItemRepository
	adjustmentRepo inventory.StockAdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	productionRepo production.ProductionRepository,
	recipeRepo production.RecipeRepository,
	itemRepo inventory.ItemRepository,
	adjustmentRepo inventory.StockAdjustmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productionRepo: productionRepo,
		recipeRepo:     recipeRepo,
		itemRepo:       itemRepo,
		adjustmentRepo: adjustmentRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductionRepo returns the production repository
func (s *NoOpTransactionScope) ProductionRepo() production.ProductionRepository {
	return s.productionRepo
}

// RecipeRepo returns the recipe repository
func (s *NoOpTransactionScope) RecipeRepo() production.RecipeRepository { return s.recipeRepo }

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository { return s.itemRepo }

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return s.adjustmentRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
