package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// EntryRepository defines the interface for ledger entry persistence
type EntryRepository interface {
	// FindByID finds a ledger entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindByEntity finds entries for an entity, paginated
	FindByEntity(ctx context.Context, ref EntityRef, filter EntryFilter) ([]Entry, error)

	// FindByEntityOrdered returns all entries for an entity ordered by
	// transaction date ascending, for balance replay
	FindByEntityOrdered(ctx context.Context, ref EntityRef) ([]Entry, error)

	// FindByPayment finds entries linked to a payment
	FindByPayment(ctx context.Context, paymentID uuid.UUID) ([]Entry, error)

	// FindByPurchaseInvoice finds entries linked to a purchase invoice
	FindByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Entry, error)

	// Create appends a new entry (entries are never updated in place)
	Create(ctx context.Context, entry *Entry) error

	// Update overwrites an existing entry. Used only when an unpaid
	// purchase invoice is edited and its original entry must track the
	// new total.
	Update(ctx context.Context, entry *Entry) error

	// Delete removes an entry, used when its source document is removed
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByPurchaseInvoice removes all entries linked to an invoice
	DeleteByPurchaseInvoice(ctx context.Context, invoiceID uuid.UUID) error

	// CountByEntity counts entries for an entity
	CountByEntity(ctx context.Context, ref EntityRef) (int64, error)

	// CountByEntityFiltered counts the entries FindByEntity would
	// return for the same filter, ignoring pagination
	CountByEntityFiltered(ctx context.Context, ref EntityRef, filter EntryFilter) (int64, error)
}

// EntryFilter extends shared.Filter with ledger-specific filters
type EntryFilter struct {
	shared.Filter
	TransactionType *TransactionType
	StartDate       *time.Time
	EndDate         *time.Time
}
