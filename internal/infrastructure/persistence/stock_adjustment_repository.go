package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/inventory"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockAdjustmentRepository implements StockAdjustmentRepository using GORM
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by its ID
func (r *GormStockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	if err := r.db.WithContext(ctx).First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByItem finds adjustments for an item, paginated
func (r *GormStockAdjustmentRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter inventory.AdjustmentFilter) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	query := r.db.WithContext(ctx).Model(&inventory.StockAdjustment{}).
		Where("item_id = ?", itemID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByPurchaseInvoice finds adjustments created by an invoice
func (r *GormStockAdjustmentRepository) FindByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("purchase_invoice_id = ?", invoiceID).
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByProduction finds adjustments created by a production batch
func (r *GormStockAdjustmentRepository) FindByProduction(ctx context.Context, productionID uuid.UUID) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	if err := r.db.WithContext(ctx).
		Where("production_id = ?", productionID).
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Create appends a new adjustment
func (r *GormStockAdjustmentRepository) Create(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// DeleteByPurchaseInvoice removes adjustments linked to an invoice
func (r *GormStockAdjustmentRepository) DeleteByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&inventory.StockAdjustment{}, "purchase_invoice_id = ?", invoiceID).Error
}

// CountByItem counts adjustments ever recorded for an item
func (r *GormStockAdjustmentRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockAdjustment{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts adjustments matching the filter
func (r *GormStockAdjustmentRepository) Count(ctx context.Context, itemID uuid.UUID, filter inventory.AdjustmentFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.StockAdjustment{}).
		Where("item_id = ?", itemID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockAdjustmentRepository) applyFilter(query *gorm.DB, filter inventory.AdjustmentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, AdjustmentSortFields, "created_at")
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(field + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockAdjustmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter inventory.AdjustmentFilter) *gorm.DB {
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.Increase != nil {
		if *filter.Increase {
			query = query.Where("delta > 0")
		} else {
			query = query.Where("delta < 0")
		}
	}
	if filter.Search != "" {
		query = query.Where("reason ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormStockAdjustmentRepository implements StockAdjustmentRepository
var _ inventory.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
