package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction(transactionType string) *Transaction {
	t := &Transaction{
		UserID:    uuid.New(),
		AccountID: uuid.New(),
		Amount:    decimal.NewFromFloat(50.00),
		Type:      transactionType,
		Category:  "groceries",
		Date:      time.Now(),
	}
	if transactionType == TransactionTypeTransfer {
		target := uuid.New()
		t.ToAccountID = &target
	}
	return t
}

func TestTransactionValidate(t *testing.T) {
	t.Run("valid income", func(t *testing.T) {
		assert.NoError(t, validTransaction(TransactionTypeIncome).Validate())
	})

	t.Run("valid transfer", func(t *testing.T) {
		assert.NoError(t, validTransaction(TransactionTypeTransfer).Validate())
	})

	t.Run("invalid type", func(t *testing.T) {
		tx := validTransaction(TransactionTypeIncome)
		tx.Type = "withdrawal"
		assert.ErrorIs(t, tx.Validate(), ErrInvalidTransactionType)
	})

	t.Run("zero amount", func(t *testing.T) {
		tx := validTransaction(TransactionTypeExpense)
		tx.Amount = decimal.Zero
		assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)
	})

	t.Run("negative amount", func(t *testing.T) {
		tx := validTransaction(TransactionTypeExpense)
		tx.Amount = decimal.NewFromFloat(-10)
		assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)
	})

	t.Run("amount above maximum", func(t *testing.T) {
		tx := validTransaction(TransactionTypeIncome)
		tx.Amount = MaxTransactionAmount.Add(decimal.NewFromInt(1))
		assert.ErrorIs(t, tx.Validate(), ErrAmountTooLarge)
	})

	t.Run("transfer without destination", func(t *testing.T) {
		tx := validTransaction(TransactionTypeTransfer)
		tx.ToAccountID = nil
		assert.ErrorIs(t, tx.Validate(), ErrTransferTargetMissing)
	})

	t.Run("transfer to same account", func(t *testing.T) {
		tx := validTransaction(TransactionTypeTransfer)
		tx.ToAccountID = &tx.AccountID
		assert.ErrorIs(t, tx.Validate(), ErrTransferSameAccount)
	})

	t.Run("destination on non-transfer", func(t *testing.T) {
		tx := validTransaction(TransactionTypeIncome)
		target := uuid.New()
		tx.ToAccountID = &target
		assert.ErrorIs(t, tx.Validate(), ErrUnexpectedTransferTarget)
	})
}

func TestTransactionEffects(t *testing.T) {
	t.Run("income credits the account", func(t *testing.T) {
		tx := validTransaction(TransactionTypeIncome)
		effects := tx.Effects()
		require.Len(t, effects, 1)
		assert.Equal(t, tx.AccountID, effects[0].AccountID)
		assert.True(t, effects[0].Delta.Equal(tx.Amount))
	})

	t.Run("expense debits the account", func(t *testing.T) {
		tx := validTransaction(TransactionTypeExpense)
		effects := tx.Effects()
		require.Len(t, effects, 1)
		assert.Equal(t, tx.AccountID, effects[0].AccountID)
		assert.True(t, effects[0].Delta.Equal(tx.Amount.Neg()))
	})

	t.Run("transfer debits source and credits destination", func(t *testing.T) {
		tx := validTransaction(TransactionTypeTransfer)
		effects := tx.Effects()
		require.Len(t, effects, 2)
		assert.Equal(t, tx.AccountID, effects[0].AccountID)
		assert.True(t, effects[0].Delta.Equal(tx.Amount.Neg()))
		assert.Equal(t, *tx.ToAccountID, effects[1].AccountID)
		assert.True(t, effects[1].Delta.Equal(tx.Amount))
	})
}

func TestTransactionInverseEffects(t *testing.T) {
	for _, transactionType := range []string{TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer} {
		tx := validTransaction(transactionType)
		effects := tx.Effects()
		inverse := tx.InverseEffects()
		require.Len(t, inverse, len(effects))

		for i := range effects {
			assert.Equal(t, effects[i].AccountID, inverse[i].AccountID)
			assert.True(t, effects[i].Delta.Add(inverse[i].Delta).IsZero(),
				"effect and inverse must cancel for type %s", transactionType)
		}
	}
}
