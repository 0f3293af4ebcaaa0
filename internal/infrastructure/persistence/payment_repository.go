package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Payment, error) {
	var payment purchasing.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByInvoice finds payments applied to an invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]purchasing.Payment, error) {
	var payments []purchasing.Payment
	if err := r.db.WithContext(ctx).
		Where("purchase_invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter purchasing.PaymentFilter) ([]purchasing.Payment, error) {
	var payments []purchasing.Payment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchasing.Payment{}), filter)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Create appends a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *purchasing.Payment) error {
	return translateDuplicate(r.db.WithContext(ctx).Create(payment).Error)
}

// Delete removes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&purchasing.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter purchasing.PaymentFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&purchasing.Payment{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByInvoice counts payments applied to an invoice
func (r *GormPaymentRepository) CountByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&purchasing.Payment{}).
		Where("purchase_invoice_id = ?", invoiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextPaymentNumber generates the next PAY-YYYY-NNNN number for the
// given year. The highest existing number for the year is read under a
// row lock so concurrent transactions cannot produce duplicates.
func (r *GormPaymentRepository) NextPaymentNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("PAY-%d-", year)

	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&purchasing.Payment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_number LIKE ?", prefix+"%").
		Order("payment_number DESC").
		Limit(1).
		Pluck("payment_number", &numbers).Error; err != nil {
		return "", err
	}

	next := 1
	if len(numbers) > 0 {
		seq, err := strconv.Atoi(strings.TrimPrefix(numbers[0], prefix))
		if err != nil {
			return "", fmt.Errorf("malformed payment number %q: %w", numbers[0], err)
		}
		next = seq + 1
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter purchasing.PaymentFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, PaymentSortFields, "payment_date")
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(field + " " + orderDir)
	} else {
		query = query.Order("payment_date DESC, payment_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter purchasing.PaymentFilter) *gorm.DB {
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.PurchaseInvoiceID != nil {
		query = query.Where("purchase_invoice_id = ?", *filter.PurchaseInvoiceID)
	}
	if filter.DirectOnly {
		query = query.Where("purchase_invoice_id IS NULL")
	}
	if filter.StartDate != nil {
		query = query.Where("payment_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("payment_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		query = query.Where("payment_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ purchasing.PaymentRepository = (*GormPaymentRepository)(nil)
