package repositories

import (
	"errors"
	"fmt"

	"fintrack-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

// CreateWithEffects persists a transaction and applies its balance effects to
// the referenced account(s) in one database transaction. Either the record
// and every adjustment land together or none of them do.
func (r *transactionRepository) CreateWithEffects(transaction *models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		return applyEffects(tx, transaction.Effects())
	})
}

// UpdateWithEffects reverses the existing record's effects using its old
// account references, amount, and type, applies the replacement's effects,
// and persists the new field values, all as one atomic unit.
func (r *transactionRepository) UpdateWithEffects(existing *models.Transaction, updated *models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := applyEffects(tx, existing.InverseEffects()); err != nil {
			return err
		}

		if err := applyEffects(tx, updated.Effects()); err != nil {
			return err
		}

		if err := tx.Save(updated).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		return nil
	})
}

// DeleteWithEffects applies the exact inverse of the transaction's original
// effects and removes the record atomically.
func (r *transactionRepository) DeleteWithEffects(transaction *models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := applyEffects(tx, transaction.InverseEffects()); err != nil {
			return err
		}

		result := tx.Delete(&models.Transaction{}, "id = ?", transaction.ID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete transaction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTransactionNotFound
		}

		return nil
	})
}

// GetByIDForUser retrieves a transaction scoped to its owner
func (r *transactionRepository) GetByIDForUser(transactionID, userID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// ListByUserID returns a user's transactions with account associations
// resolved, most recent date first.
func (r *transactionRepository) ListByUserID(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Preload("Account").
		Preload("ToAccount").
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// SumEffectsForAccount computes the ground-truth balance of an account from
// the signed effects of every transaction referencing it. The stored balance
// must always equal this sum.
func (r *transactionRepository) SumEffectsForAccount(accountID uuid.UUID) (decimal.Decimal, error) {
	var transactions []models.Transaction
	if err := r.db.Where("account_id = ? OR to_account_id = ?", accountID, accountID).
		Find(&transactions).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to load transactions for account: %w", err)
	}

	sum := decimal.Zero
	for i := range transactions {
		for _, effect := range transactions[i].Effects() {
			if effect.AccountID == accountID {
				sum = sum.Add(effect.Delta)
			}
		}
	}

	return sum, nil
}

// applyEffects applies each signed delta through the shared atomic increment.
func applyEffects(tx *gorm.DB, effects []models.BalanceEffect) error {
	for _, effect := range effects {
		if err := adjustBalance(tx, effect.AccountID, effect.Delta); err != nil {
			return err
		}
	}
	return nil
}
