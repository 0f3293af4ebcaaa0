package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/workshoperp/backend/internal/domain/ledger"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// fakeEntryRepository is an in-memory ledger.EntryRepository that only
// tracks per-entity entry counts
type fakeEntryRepository struct {
	counts map[uuid.UUID]int64
}

func newFakeEntryRepository() *fakeEntryRepository {
	return &fakeEntryRepository{counts: make(map[uuid.UUID]int64)}
}

func (r *fakeEntryRepository) FindByID(_ context.Context, _ uuid.UUID) (*ledger.Entry, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeEntryRepository) FindByEntity(_ context.Context, _ ledger.EntityRef, _ ledger.EntryFilter) ([]ledger.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepository) FindByEntityOrdered(_ context.Context, _ ledger.EntityRef) ([]ledger.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepository) FindByPayment(_ context.Context, _ uuid.UUID) ([]ledger.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepository) FindByPurchaseInvoice(_ context.Context, _ uuid.UUID) ([]ledger.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepository) Create(_ context.Context, _ *ledger.Entry) error {
	return nil
}

func (r *fakeEntryRepository) Update(_ context.Context, _ *ledger.Entry) error {
	return nil
}

func (r *fakeEntryRepository) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (r *fakeEntryRepository) DeleteByPurchaseInvoice(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (r *fakeEntryRepository) CountByEntity(_ context.Context, ref ledger.EntityRef) (int64, error) {
	switch {
	case ref.AccountID != nil:
		return r.counts[*ref.AccountID], nil
	case ref.SupplierID != nil:
		return r.counts[*ref.SupplierID], nil
	case ref.CustomerID != nil:
		return r.counts[*ref.CustomerID], nil
	}
	return 0, nil
}

func (r *fakeEntryRepository) CountByEntityFiltered(ctx context.Context, ref ledger.EntityRef, _ ledger.EntryFilter) (int64, error) {
	return r.CountByEntity(ctx, ref)
}
