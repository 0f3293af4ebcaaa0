package persistence

import (
	"context"

	appprod "github.com/workshoperp/backend/internal/application/production"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/production"
	"gorm.io/gorm"
)

// GormProductionTransactionScope implements the production
// TransactionScope using GORM transactions. Starting a batch deducts
// stock and completing one receives finished goods, each atomically.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

// NewGormProductionTransactionScope creates a new GormProductionTransactionScope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos appprod.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormProductionRepositories{tx: tx}
		return fn(repos)
	})
}

// gormProductionRepositories provides repository access within a transaction
type gormProductionRepositories struct {
	tx *gorm.DB
}

// ProductionRepo returns the production repository scoped to the current transaction
func (r *gormProductionRepositories) ProductionRepo() production.ProductionRepository {
	return NewGormProductionRepository(r.tx)
}

// RecipeRepo returns the recipe repository scoped to the current transaction
func (r *gormProductionRepositories) RecipeRepo() production.RecipeRepository {
	return NewGormRecipeRepository(r.tx)
}

// ItemRepo returns the item repository scoped to the current transaction
func (r *gormProductionRepositories) ItemRepo() inventory.ItemRepository {
	return NewGormItemRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormProductionRepositories) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.tx)
}

// Ensure GormProductionTransactionScope implements TransactionScope
var _ appprod.TransactionScope = (*GormProductionTransactionScope)(nil)

// Ensure gormProductionRepositories implements TransactionalRepositories
var _ appprod.TransactionalRepositories = (*gormProductionRepositories)(nil)
