package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormEntryRepository implements EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	var entry ledger.Entry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByEntity finds entries for an entity, paginated
func (r *GormEntryRepository) FindByEntity(ctx context.Context, ref ledger.EntityRef, filter ledger.EntryFilter) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	query := r.entityScope(r.db.WithContext(ctx).Model(&ledger.Entry{}), ref)
	query = r.applyFilter(query, filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByEntityOrdered returns all entries for an entity ordered by
// transaction date ascending, for balance replay
func (r *GormEntryRepository) FindByEntityOrdered(ctx context.Context, ref ledger.EntityRef) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	query := r.entityScope(r.db.WithContext(ctx).Model(&ledger.Entry{}), ref).
		Order("transaction_date ASC, created_at ASC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByPayment finds entries linked to a payment
func (r *GormEntryRepository) FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByPurchaseInvoice finds entries linked to a purchase invoice
func (r *GormEntryRepository) FindByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	if err := r.db.WithContext(ctx).
		Where("purchase_invoice_id = ?", invoiceID).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create appends a new entry
func (r *GormEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Update overwrites an existing entry
func (r *GormEntryRepository) Update(ctx context.Context, entry *ledger.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes an entry
func (r *GormEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.Entry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByPurchaseInvoice removes all entries linked to an invoice
func (r *GormEntryRepository) DeleteByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&ledger.Entry{}, "purchase_invoice_id = ?", invoiceID).Error
}

// CountByEntity counts entries for an entity
func (r *GormEntryRepository) CountByEntity(ctx context.Context, ref ledger.EntityRef) (int64, error) {
	var count int64
	query := r.entityScope(r.db.WithContext(ctx).Model(&ledger.Entry{}), ref)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByEntityFiltered counts the entries FindByEntity would return
// for the same filter, ignoring pagination
func (r *GormEntryRepository) CountByEntityFiltered(ctx context.Context, ref ledger.EntityRef, filter ledger.EntryFilter) (int64, error) {
	var count int64
	query := r.entityScope(r.db.WithContext(ctx).Model(&ledger.Entry{}), ref)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// entityScope narrows a query to the entity an EntityRef points at
func (r *GormEntryRepository) entityScope(query *gorm.DB, ref ledger.EntityRef) *gorm.DB {
	switch {
	case ref.AccountID != nil:
		return query.Where("account_id = ?", *ref.AccountID)
	case ref.SupplierID != nil:
		return query.Where("supplier_id = ?", *ref.SupplierID)
	case ref.CustomerID != nil:
		return query.Where("customer_id = ?", *ref.CustomerID)
	default:
		// An empty ref matches nothing rather than everything
		return query.Where("1 = 0")
	}
}

// applyFilterWithoutPagination applies the filter conditions only
func (r *GormEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.EntryFilter) *gorm.DB {
	if filter.TransactionType != nil {
		query = query.Where("transaction_type = ?", *filter.TransactionType)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR reference_number ILIKE ?", searchPattern, searchPattern)
	}
	return query
}

// applyFilter applies filter conditions, pagination and ordering
func (r *GormEntryRepository) applyFilter(query *gorm.DB, filter ledger.EntryFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, LedgerEntrySortFields, "transaction_date")
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(field + " " + orderDir)
	} else {
		query = query.Order("transaction_date DESC, created_at DESC")
	}

	return query
}

// Ensure GormEntryRepository implements EntryRepository
var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
