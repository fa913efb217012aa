package services

import (
	"context"
	"time"

	"fintrack-api/internal/dto"
	"fintrack-api/internal/models"

	"github.com/google/uuid"
)

// AuthServiceInterface defines the contract for authentication operations
type AuthServiceInterface interface {
	Register(req *dto.SignupRequest) (*models.User, error)
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshTokens(refreshToken string) (*dto.TokenResponse, error)
	Logout(accessToken string) error
	IsTokenBlacklisted(jti string) bool
}

// UserServiceInterface defines user profile and admin operations
type UserServiceInterface interface {
	GetByID(userID uuid.UUID) (*models.User, error)
	List(offset, limit int) ([]models.User, int64, error)
	Update(userID uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error)
	Delete(userID uuid.UUID) error
}

// AccountServiceInterface defines account-related business operations
type AccountServiceInterface interface {
	Create(userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error)
	GetByID(accountID, userID uuid.UUID) (*models.Account, error)
	ListForUser(userID uuid.UUID) ([]models.Account, error)
	Update(accountID, userID uuid.UUID, req *dto.UpdateAccountRequest) (*models.Account, error)
	Delete(accountID, userID uuid.UUID) error
}

// TransactionServiceInterface defines transaction recording operations.
// Every mutation adjusts the balances of the affected accounts atomically
// with the record write.
type TransactionServiceInterface interface {
	Create(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	GetByID(transactionID, userID uuid.UUID) (*models.Transaction, error)
	ListForUser(userID uuid.UUID) ([]models.Transaction, error)
	Update(transactionID, userID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(transactionID, userID uuid.UUID) error
}

// CurrencyServiceInterface defines exchange rate operations backed by the
// daily snapshot cache
type CurrencyServiceInterface interface {
	GetRates(ctx context.Context) (*dto.RatesResponse, error)
	Convert(ctx context.Context, req *dto.ConvertCurrencyRequest) (*dto.ConvertCurrencyResponse, error)
	SupportedCurrencies(ctx context.Context) (*dto.SupportedCurrenciesResponse, error)
	Refresh(ctx context.Context) (*dto.RatesResponse, error)
}

// PasswordServiceInterface defines the contract for password operations
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// TokenServiceInterface defines the contract for JWT operations
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ValidateRefreshToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

// RateFetcher retrieves a fresh exchange rate table from an upstream provider
type RateFetcher interface {
	FetchRates(ctx context.Context, baseCurrency string) (map[string]float64, error)
}

// MetricsRecorderInterface abstracts metric emission so services stay
// testable without a live registry
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
}
