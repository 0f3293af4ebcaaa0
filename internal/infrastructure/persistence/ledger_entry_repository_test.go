package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshoperp/backend/internal/domain/ledger"
)

func TestGormEntryRepository_FindByEntityOrdered(t *testing.T) {
	t.Run("scopes to the supplier column and orders by date", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormEntryRepository(db)

		supplierID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "supplier_id", "transaction_type", "amount", "balance"}).
			AddRow(uuid.New(), supplierID, "CREDIT", decimal.NewFromInt(100), decimal.NewFromInt(100)).
			AddRow(uuid.New(), supplierID, "DEBIT", decimal.NewFromInt(40), decimal.NewFromInt(60))

		mock.ExpectQuery(`SELECT \* FROM "ledger_entries" WHERE supplier_id = \$1 ORDER BY transaction_date ASC, created_at ASC`).
			WithArgs(supplierID).
			WillReturnRows(rows)

		entries, err := repo.FindByEntityOrdered(context.Background(), ledger.SupplierRef(supplierID))

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ledger.TransactionCredit, entries[0].TransactionType)
		assert.True(t, entries[1].Balance.Equal(decimal.NewFromInt(60)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEntryRepository_CountByEntity(t *testing.T) {
	t.Run("counts account entries", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormEntryRepository(db)

		accountID := uuid.New()

		rows := sqlmock.NewRows([]string{"count"}).AddRow(5)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE account_id = \$1`).
			WithArgs(accountID).
			WillReturnRows(rows)

		count, err := repo.CountByEntity(context.Background(), ledger.AccountRef(accountID))

		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ref matches nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormEntryRepository(db)

		rows := sqlmock.NewRows([]string{"count"}).AddRow(0)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE 1 = 0`).
			WillReturnRows(rows)

		count, err := repo.CountByEntity(context.Background(), ledger.EntityRef{})

		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEntryRepository_CountByEntityFiltered(t *testing.T) {
	t.Run("applies the type filter to the count", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormEntryRepository(db)

		accountID := uuid.New()
		txType := ledger.TransactionDebit

		rows := sqlmock.NewRows([]string{"count"}).AddRow(2)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE account_id = \$1 AND transaction_type = \$2`).
			WithArgs(accountID, txType).
			WillReturnRows(rows)

		count, err := repo.CountByEntityFiltered(context.Background(), ledger.AccountRef(accountID), ledger.EntryFilter{TransactionType: &txType})

		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormEntryRepository_DeleteByPurchaseInvoice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormEntryRepository(db)

	invoiceID := uuid.New()

	mock.ExpectExec(`DELETE FROM "ledger_entries" WHERE purchase_invoice_id = \$1`).
		WithArgs(invoiceID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteByPurchaseInvoice(context.Background(), invoiceID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
