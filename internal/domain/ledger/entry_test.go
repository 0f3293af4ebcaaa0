package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshoperp/backend/internal/domain/shared"
)

func TestEntityRef(t *testing.T) {
	t.Run("exactly one reference is valid", func(t *testing.T) {
		ref := AccountRef(uuid.New())
		assert.NoError(t, ref.Validate())
		assert.Equal(t, EntityAccount, ref.Type())
	})

	t.Run("empty reference is rejected", func(t *testing.T) {
		err := EntityRef{}.Validate()
		assert.Error(t, err)
	})

	t.Run("multiple references are rejected", func(t *testing.T) {
		accountID := uuid.New()
		supplierID := uuid.New()
		ref := EntityRef{AccountID: &accountID, SupplierID: &supplierID}
		assert.Error(t, ref.Validate())
	})

	t.Run("entity id resolves the set reference", func(t *testing.T) {
		supplierID := uuid.New()
		ref := SupplierRef(supplierID)
		assert.Equal(t, supplierID, ref.EntityID())
		assert.Equal(t, EntitySupplier, ref.Type())
	})
}

func TestNewCreditEntry(t *testing.T) {
	ref := AccountRef(uuid.New())
	now := time.Now()

	t.Run("increases balance by amount", func(t *testing.T) {
		entry, err := NewCreditEntry(ref, decimal.NewFromInt(250), decimal.NewFromInt(1000), "Opening balance", now)
		require.NoError(t, err)
		assert.Equal(t, TransactionCredit, entry.TransactionType)
		assert.True(t, entry.Balance.Equal(decimal.NewFromInt(1250)))
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewCreditEntry(ref, decimal.Zero, decimal.NewFromInt(1000), "bad", now)
		assert.Error(t, err)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewCreditEntry(ref, decimal.NewFromInt(-10), decimal.NewFromInt(1000), "bad", now)
		assert.Error(t, err)
	})
}

func TestNewDebitEntry(t *testing.T) {
	ref := AccountRef(uuid.New())
	now := time.Now()

	t.Run("decreases balance by amount", func(t *testing.T) {
		entry, err := NewDebitEntry(ref, decimal.NewFromInt(400), decimal.NewFromInt(1000), "Supplier payment", now)
		require.NoError(t, err)
		assert.Equal(t, TransactionDebit, entry.TransactionType)
		assert.True(t, entry.Balance.Equal(decimal.NewFromInt(600)))
	})

	t.Run("allows debit of the full balance", func(t *testing.T) {
		entry, err := NewDebitEntry(ref, decimal.NewFromInt(1000), decimal.NewFromInt(1000), "Drain", now)
		require.NoError(t, err)
		assert.True(t, entry.Balance.IsZero())
	})

	t.Run("rejects debit exceeding balance", func(t *testing.T) {
		_, err := NewDebitEntry(ref, decimal.NewFromInt(1001), decimal.NewFromInt(1000), "Too much", now)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_FUNDS", domainErr.Code)
	})
}

func TestEntrySignedAmount(t *testing.T) {
	ref := SupplierRef(uuid.New())
	now := time.Now()

	credit, err := NewCreditEntry(ref, decimal.NewFromInt(100), decimal.Zero, "Invoice", now)
	require.NoError(t, err)
	debit, err := NewDebitEntry(ref, decimal.NewFromInt(30), decimal.NewFromInt(100), "Payment", now)
	require.NoError(t, err)

	assert.True(t, credit.GetSignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, debit.GetSignedAmount().Equal(decimal.NewFromInt(-30)))

	balance := decimal.Zero
	balance = credit.ApplyTo(balance)
	balance = debit.ApplyTo(balance)
	assert.True(t, balance.Equal(decimal.NewFromInt(70)))
}

func TestEntryFluentSetters(t *testing.T) {
	ref := AccountRef(uuid.New())
	paymentID := uuid.New()
	invoiceID := uuid.New()
	adminID := uuid.New()

	entry, err := NewDebitEntry(ref, decimal.NewFromInt(50), decimal.NewFromInt(100), "Invoice payment", time.Now())
	require.NoError(t, err)

	entry.WithReference("PAY-2026-0001").
		WithPayment(paymentID).
		WithPurchaseInvoice(invoiceID).
		WithCreatedBy(adminID)

	require.NotNil(t, entry.ReferenceNumber)
	assert.Equal(t, "PAY-2026-0001", *entry.ReferenceNumber)
	assert.Equal(t, paymentID, *entry.PaymentID)
	assert.Equal(t, invoiceID, *entry.PurchaseInvoiceID)
	assert.Equal(t, adminID, *entry.CreatedByID)
}
