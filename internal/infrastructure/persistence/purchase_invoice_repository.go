package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/purchasing"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// FindByID finds an invoice with its lines
func (r *GormPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseInvoice, error) {
	var invoice purchasing.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByIDForUpdate finds an invoice with its lines, locking the
// invoice row until the surrounding transaction ends
func (r *GormPurchaseInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseInvoice, error) {
	var invoice purchasing.PurchaseInvoice
	if err := lockForUpdate(r.db.WithContext(ctx)).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its document number
func (r *GormPurchaseInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*purchasing.PurchaseInvoice, error) {
	var invoice purchasing.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds invoices matching the filter
func (r *GormPurchaseInvoiceRepository) FindAll(ctx context.Context, filter purchasing.InvoiceFilter) ([]purchasing.PurchaseInvoice, error) {
	var invoices []purchasing.PurchaseInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchasing.PurchaseInvoice{}), filter).
		Preload("Items")

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice together with its lines. A
// duplicate invoice number reports a conflict.
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, invoice *purchasing.PurchaseInvoice) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(invoice).Error
	return translateDuplicate(err)
}

// DeleteItems removes the current lines of an invoice
func (r *GormPurchaseInvoiceRepository) DeleteItems(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&purchasing.PurchaseInvoiceItem{}, "purchase_invoice_id = ?", invoiceID).Error
}

// Delete removes an invoice and its lines
func (r *GormPurchaseInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DeleteItems(ctx, id); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&purchasing.PurchaseInvoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormPurchaseInvoiceRepository) Count(ctx context.Context, filter purchasing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&purchasing.PurchaseInvoice{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySupplier counts invoices booked against a supplier
func (r *GormPurchaseInvoiceRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseInvoice{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextInvoiceNumber generates the next PI-YYYY-NNNN number for the
// given year. The highest existing number for the year is read under a
// row lock so concurrent transactions cannot produce duplicates.
func (r *GormPurchaseInvoiceRepository) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("PI-%d-", year)

	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseInvoice{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &numbers).Error; err != nil {
		return "", err
	}

	next := 1
	if len(numbers) > 0 {
		seq, err := strconv.Atoi(strings.TrimPrefix(numbers[0], prefix))
		if err != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", numbers[0], err)
		}
		next = seq + 1
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// invoiceSummaryRow is the scan target for the summary aggregate
type invoiceSummaryRow struct {
	TotalCount   int64
	UnpaidCount  int64
	PartialCount int64
	PaidCount    int64
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
}

// Summary aggregates invoice counts and totals by status
func (r *GormPurchaseInvoiceRepository) Summary(ctx context.Context) (*purchasing.InvoiceSummary, error) {
	var row invoiceSummaryRow
	err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseInvoice{}).
		Select(`COUNT(*) AS total_count,
			COUNT(*) FILTER (WHERE status = ?) AS unpaid_count,
			COUNT(*) FILTER (WHERE status = ?) AS partial_count,
			COUNT(*) FILTER (WHERE status = ?) AS paid_count,
			COALESCE(SUM(total_amount), 0) AS total_amount,
			COALESCE(SUM(paid_amount), 0) AS paid_amount`,
			purchasing.StatusUnpaid, purchasing.StatusPartial, purchasing.StatusPaid).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &purchasing.InvoiceSummary{
		TotalCount:        row.TotalCount,
		UnpaidCount:       row.UnpaidCount,
		PartialCount:      row.PartialCount,
		PaidCount:         row.PaidCount,
		TotalAmount:       row.TotalAmount,
		PaidAmount:        row.PaidAmount,
		OutstandingAmount: row.TotalAmount.Sub(row.PaidAmount),
	}, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseInvoiceRepository) applyFilter(query *gorm.DB, filter purchasing.InvoiceFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, InvoiceSortFields, "invoice_date")
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(field + " " + orderDir)
	} else {
		query = query.Order("invoice_date DESC, invoice_number DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter purchasing.InvoiceFilter) *gorm.DB {
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("invoice_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("invoice_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository
var _ purchasing.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)
