package repositories

import (
	"errors"
	"fmt"

	"fintrack-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountHasTransactions = errors.New("account still has transactions referencing it")
)

// accountRepository implements AccountRepositoryInterface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{db: db}
}

// Create persists a new account
func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByIDForUser retrieves an account by ID scoped to its owner. A foreign
// user's account resolves to ErrAccountNotFound.
func (r *accountRepository) GetByIDForUser(accountID, userID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByUserID retrieves all accounts owned by a user
func (r *accountRepository) GetByUserID(userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

// UpdateForUser applies a partial update with ownership as part of the
// predicate, so a reassignment between check and update cannot slip through.
func (r *accountRepository) UpdateForUser(accountID, userID uuid.UUID, fields map[string]interface{}) (*models.Account, error) {
	result := r.db.Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAccountNotFound
	}

	return r.GetByIDForUser(accountID, userID)
}

// DeleteForUser soft deletes an account scoped to its owner. Deletion is
// refused while transactions still reference the account, since removing it
// would orphan their balance effects.
func (r *accountRepository) DeleteForUser(accountID, userID uuid.UUID) error {
	count, err := r.CountTransactionsReferencing(accountID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAccountHasTransactions
	}

	result := r.db.Where("id = ? AND user_id = ?", accountID, userID).
		Delete(&models.Account{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// AdjustBalance applies a signed delta to an account balance as a single
// atomic SQL increment. Concurrent adjustments to the same account are
// linearized by the database; application code never reads the balance first.
func (r *accountRepository) AdjustBalance(accountID uuid.UUID, delta decimal.Decimal) error {
	return adjustBalance(r.db, accountID, delta)
}

// CountTransactionsReferencing counts transactions that reference an account
// as either source or transfer destination.
func (r *accountRepository) CountTransactionsReferencing(accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Transaction{}).
		Where("account_id = ? OR to_account_id = ?", accountID, accountID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count referencing transactions: %w", err)
	}
	return count, nil
}

// adjustBalance is the shared atomic increment primitive. It runs against
// whatever *gorm.DB it is handed, so the transaction repository can invoke it
// inside a multi-statement database transaction.
func adjustBalance(db *gorm.DB, accountID uuid.UUID, delta decimal.Decimal) error {
	result := db.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to adjust balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
