package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack-api/internal/dto"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"

	"github.com/google/uuid"
)

// TransactionService records income, expense and transfer transactions.
// Account balances are derived state: every create, update and delete
// adjusts the affected balances in the same database transaction as the
// record write, so a balance always equals the sum of the effects of the
// transactions that touch it.
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	accountRepo     repositories.AccountRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	accountRepo repositories.AccountRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// Create records a new transaction and applies its balance effects
func (s *TransactionService) Create(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	start := time.Now()

	transaction := s.buildTransaction(userID, req.AccountID, req.ToAccountID, req)
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := s.verifyAccountOwnership(transaction); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.CreateWithEffects(transaction); err != nil {
		s.recordOutcome("create", "failed")
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.recordOutcome("create", "success")
	s.recordDuration(start)
	s.logger.Info("transaction recorded",
		"transaction_id", transaction.ID,
		"user_id", userID,
		"type", transaction.Type,
		"amount", transaction.Amount)

	return transaction, nil
}

// GetByID retrieves a transaction owned by the user
func (s *TransactionService) GetByID(transactionID, userID uuid.UUID) (*models.Transaction, error) {
	return s.transactionRepo.GetByIDForUser(transactionID, userID)
}

// ListForUser returns the user's transactions, newest first
func (s *TransactionService) ListForUser(userID uuid.UUID) ([]models.Transaction, error) {
	return s.transactionRepo.ListByUserID(userID)
}

// Update replaces a transaction. The stored record's effects are reversed
// and the replacement's effects applied, all atomically with the record
// write, so affected balances end up as if only the new version had ever
// been recorded.
func (s *TransactionService) Update(transactionID, userID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	start := time.Now()

	existing, err := s.transactionRepo.GetByIDForUser(transactionID, userID)
	if err != nil {
		return nil, err
	}

	updated := s.buildTransaction(userID, req.AccountID, req.ToAccountID, (*dto.CreateTransactionRequest)(req))
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.verifyAccountOwnership(updated); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.UpdateWithEffects(existing, updated); err != nil {
		s.recordOutcome("update", "failed")
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.recordOutcome("update", "success")
	s.recordDuration(start)
	s.logger.Info("transaction updated",
		"transaction_id", transactionID,
		"user_id", userID)

	return updated, nil
}

// Delete removes a transaction and reverses its balance effects
func (s *TransactionService) Delete(transactionID, userID uuid.UUID) error {
	start := time.Now()

	existing, err := s.transactionRepo.GetByIDForUser(transactionID, userID)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.DeleteWithEffects(existing); err != nil {
		s.recordOutcome("delete", "failed")
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.recordOutcome("delete", "success")
	s.recordDuration(start)
	s.logger.Info("transaction deleted",
		"transaction_id", transactionID,
		"user_id", userID)

	return nil
}

func (s *TransactionService) buildTransaction(userID, accountID uuid.UUID, toAccountID *uuid.UUID, req *dto.CreateTransactionRequest) *models.Transaction {
	return &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		ToAccountID: toAccountID,
		Amount:      req.Amount,
		Type:        strings.ToLower(strings.TrimSpace(req.Type)),
		Category:    strings.TrimSpace(req.Category),
		Date:        req.Date,
		Description: strings.TrimSpace(req.Description),
	}
}

// verifyAccountOwnership confirms every account the transaction touches
// belongs to the transaction's user. An account owned by someone else is
// reported as not found, never as forbidden.
func (s *TransactionService) verifyAccountOwnership(transaction *models.Transaction) error {
	if _, err := s.accountRepo.GetByIDForUser(transaction.AccountID, transaction.UserID); err != nil {
		return err
	}

	if transaction.IsTransfer() {
		if _, err := s.accountRepo.GetByIDForUser(*transaction.ToAccountID, transaction.UserID); err != nil {
			return err
		}
	}

	return nil
}

func (s *TransactionService) recordOutcome(operation, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter("transaction.recorded", map[string]string{
		"operation": operation,
		"status":    status,
	})
}

func (s *TransactionService) recordDuration(start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordProcessingTime("transaction.recording", time.Since(start))
}
