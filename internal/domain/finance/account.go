package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/workshoperp/backend/internal/domain/shared"
)

// AccountType represents the kind of money account
type AccountType string

const (
	AccountCash AccountType = "CASH"
	AccountBank AccountType = "BANK"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	return t == AccountCash || t == AccountBank
}

// Account is a money account (cash drawer or bank account).
// OpeningBalance and Type are fixed at creation; CurrentBalance is
// maintained exclusively through ledger entries.
type Account struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Type           AccountType     `gorm:"type:varchar(10);not null"`
	BankName       *string         `gorm:"type:varchar(255)"`
	AccountNumber  *string         `gorm:"type:varchar(100)"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedByID    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new account with current balance equal to the
// opening balance
func NewAccount(name string, accountType AccountType, openingBalance decimal.Decimal) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Account name is required")
	}
	if !accountType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Account type must be CASH or BANK")
	}
	if openingBalance.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("Opening balance cannot be negative")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              accountType,
		OpeningBalance:    openingBalance,
		CurrentBalance:    openingBalance,
	}, nil
}

// WithBankDetails sets the bank fields. Required for BANK accounts.
func (a *Account) WithBankDetails(bankName string, accountNumber *string) (*Account, error) {
	bankName = strings.TrimSpace(bankName)
	if a.Type == AccountBank && bankName == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Bank name is required for bank accounts")
	}
	if bankName != "" {
		a.BankName = &bankName
	}
	a.AccountNumber = accountNumber
	return a, nil
}

// Rename updates the account name. Type and opening balance cannot
// change after creation.
func (a *Account) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.ErrInvalidInput.WithMessage("Account name is required")
	}
	a.Name = name
	return nil
}

// Credit increases the current balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Credit amount must be positive")
	}
	a.CurrentBalance = a.CurrentBalance.Add(amount)
	return nil
}

// Debit decreases the current balance. The balance must cover the amount.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidInput.WithMessage("Debit amount must be positive")
	}
	if a.CurrentBalance.LessThan(amount) {
		return shared.ErrInsufficientFunds.WithMessage("Account balance is insufficient")
	}
	a.CurrentBalance = a.CurrentBalance.Sub(amount)
	return nil
}

// SetBalance overwrites the current balance after a ledger replay
func (a *Account) SetBalance(balance decimal.Decimal) {
	a.CurrentBalance = balance
}

// HasOnlyOpeningActivity reports whether the account balance still equals
// its opening balance, used by the deletion rule when a single opening
// entry exists.
func (a *Account) HasOnlyOpeningActivity() bool {
	return a.CurrentBalance.Equal(a.OpeningBalance)
}
