package services

import (
	"fmt"
	"log/slog"
	"strings"

	"fintrack-api/internal/dto"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService handles account business logic. Balances are never set
// directly through this service: a new account starts at zero and every
// later change flows through transaction effects.
type AccountService struct {
	accountRepo repositories.AccountRepositoryInterface
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Create opens a new account for the user with a zero balance
func (s *AccountService) Create(userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	account := &models.Account{
		UserID:   userID,
		Name:     strings.TrimSpace(req.Name),
		Balance:  decimal.Zero,
		Currency: currency,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("account created",
		"account_id", account.ID,
		"user_id", userID)

	return account, nil
}

// GetByID retrieves an account owned by the user
func (s *AccountService) GetByID(accountID, userID uuid.UUID) (*models.Account, error) {
	return s.accountRepo.GetByIDForUser(accountID, userID)
}

// ListForUser returns all accounts owned by the user
func (s *AccountService) ListForUser(userID uuid.UUID) ([]models.Account, error) {
	return s.accountRepo.GetByUserID(userID)
}

// Update applies partial changes to an account owned by the user
func (s *AccountService) Update(accountID, userID uuid.UUID, req *dto.UpdateAccountRequest) (*models.Account, error) {
	fields := make(map[string]interface{})

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Currency != nil {
		fields["currency"] = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}

	if len(fields) == 0 {
		return s.accountRepo.GetByIDForUser(accountID, userID)
	}

	account, err := s.accountRepo.UpdateForUser(accountID, userID, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account updated",
		"account_id", accountID,
		"user_id", userID)

	return account, nil
}

// Delete removes an account owned by the user. Deletion is refused while
// any transaction still references the account, so recorded history never
// points at a missing account.
func (s *AccountService) Delete(accountID, userID uuid.UUID) error {
	if err := s.accountRepo.DeleteForUser(accountID, userID); err != nil {
		return err
	}

	s.logger.Info("account deleted",
		"account_id", accountID,
		"user_id", userID)

	return nil
}
