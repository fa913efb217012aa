package repositories

import (
	"time"

	"fintrack-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll(offset, limit int) ([]models.User, int64, error)
	Update(user *models.User) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	UpdatePasswordHash(id uuid.UUID, passwordHash string) error
	Delete(id uuid.UUID) error
}

// AccountRepositoryInterface defines the contract for account repository
// operations. All reads and writes except AdjustBalance are ownership-scoped:
// the owner is part of the lookup predicate, so an account belonging to
// another user is indistinguishable from a missing one.
type AccountRepositoryInterface interface {
	Create(account *models.Account) error
	GetByIDForUser(accountID, userID uuid.UUID) (*models.Account, error)
	GetByUserID(userID uuid.UUID) ([]models.Account, error)
	UpdateForUser(accountID, userID uuid.UUID, fields map[string]interface{}) (*models.Account, error)
	DeleteForUser(accountID, userID uuid.UUID) error
	AdjustBalance(accountID uuid.UUID, delta decimal.Decimal) error
	CountTransactionsReferencing(accountID uuid.UUID) (int64, error)
}

// TransactionRepositoryInterface defines the contract for transaction
// repository operations. The *WithEffects methods are the only way records
// are mutated: each runs the record write and all balance adjustments in a
// single database transaction.
type TransactionRepositoryInterface interface {
	CreateWithEffects(transaction *models.Transaction) error
	UpdateWithEffects(existing *models.Transaction, updated *models.Transaction) error
	DeleteWithEffects(transaction *models.Transaction) error
	GetByIDForUser(transactionID, userID uuid.UUID) (*models.Transaction, error)
	ListByUserID(userID uuid.UUID) ([]models.Transaction, error)
	SumEffectsForAccount(accountID uuid.UUID) (decimal.Decimal, error)
}

// CurrencyRateRepositoryInterface defines the contract for rate snapshot storage
type CurrencyRateRepositoryInterface interface {
	Create(snapshot *models.CurrencyRate) error
	GetByDate(day time.Time) (*models.CurrencyRate, error)
	GetLatest() (*models.CurrencyRate, error)
	ReplaceForDate(snapshot *models.CurrencyRate) error
}

// RefreshTokenRepositoryInterface defines the contract for refresh token storage
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	GetByTokenHash(tokenHash string) (*models.RefreshToken, error)
	Update(token *models.RefreshToken) error
	RevokeAllForUser(userID uuid.UUID) error
	DeleteExpired() error
}

// BlacklistedTokenRepositoryInterface defines the contract for token blacklist storage
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() error
}
