package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome   = "income"
	TransactionTypeExpense  = "expense"
	TransactionTypeTransfer = "transfer"

	MaxDescriptionLength = 500
)

// MaxTransactionAmount bounds single-transaction amounts at 1e9.
var MaxTransactionAmount = decimal.NewFromInt(1_000_000_000)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidAmount            = errors.New("transaction amount must be positive")
	ErrAmountTooLarge           = errors.New("transaction amount exceeds maximum")
	ErrTransferTargetMissing    = errors.New("transfer requires a destination account")
	ErrTransferSameAccount      = errors.New("cannot transfer to the same account")
	ErrUnexpectedTransferTarget = errors.New("to_account_id is only valid for transfers")
)

// Transaction records a single income, expense, or transfer event. Creating,
// updating, or deleting a transaction adjusts the referenced account balances
// by its Effects; an update reverses the old effects before applying the new
// ones so the ledger invariant holds across edits.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	ToAccountID *uuid.UUID      `gorm:"type:uuid;index" json:"to_account_id,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        string          `gorm:"type:varchar(20);not null" json:"type"`
	Category    string          `gorm:"type:varchar(50);not null" json:"category"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"type:varchar(500)" json:"description,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	User      User     `gorm:"foreignKey:UserID" json:"-"`
	Account   Account  `gorm:"foreignKey:AccountID" json:"-"`
	ToAccount *Account `gorm:"foreignKey:ToAccountID" json:"-"`
}

// BalanceEffect is the signed delta a transaction applies to one account.
type BalanceEffect struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	t.UpdatedAt = time.Now()
	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Amount.GreaterThan(MaxTransactionAmount) {
		return ErrAmountTooLarge
	}

	if t.Category == "" {
		return errors.New("category is required")
	}

	if t.Date.IsZero() {
		return errors.New("date is required")
	}

	if len(t.Description) > MaxDescriptionLength {
		return errors.New("description too long")
	}

	if t.Type == TransactionTypeTransfer {
		if t.ToAccountID == nil || *t.ToAccountID == uuid.Nil {
			return ErrTransferTargetMissing
		}
		if *t.ToAccountID == t.AccountID {
			return ErrTransferSameAccount
		}
	} else if t.ToAccountID != nil {
		return ErrUnexpectedTransferTarget
	}

	return nil
}

// Effects returns the signed balance deltas this transaction applies:
// income credits the account, expense debits it, and a transfer debits the
// source and credits the destination.
func (t *Transaction) Effects() []BalanceEffect {
	switch t.Type {
	case TransactionTypeIncome:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: t.Amount}}
	case TransactionTypeExpense:
		return []BalanceEffect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}
	case TransactionTypeTransfer:
		effects := []BalanceEffect{{AccountID: t.AccountID, Delta: t.Amount.Neg()}}
		if t.ToAccountID != nil {
			effects = append(effects, BalanceEffect{AccountID: *t.ToAccountID, Delta: t.Amount})
		}
		return effects
	default:
		return nil
	}
}

// InverseEffects returns the exact reversal of Effects, applied when a
// transaction is deleted or before its replacement effects on update.
func (t *Transaction) InverseEffects() []BalanceEffect {
	effects := t.Effects()
	inverse := make([]BalanceEffect, len(effects))
	for i, e := range effects {
		inverse[i] = BalanceEffect{AccountID: e.AccountID, Delta: e.Delta.Neg()}
	}
	return inverse
}

func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionTypeTransfer
}

func (t *Transaction) TableName() string {
	return "transactions"
}

func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	default:
		return false
	}
}
