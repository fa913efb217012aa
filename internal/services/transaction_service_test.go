package services

import (
	"log/slog"
	"testing"
	"time"

	"fintrack-api/internal/database"
	"fintrack-api/internal/dto"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// TransactionServiceTestSuite is the test suite for TransactionService
type TransactionServiceTestSuite struct {
	suite.Suite
	db              *database.DB
	transactionRepo repositories.TransactionRepositoryInterface
	accountRepo     repositories.AccountRepositoryInterface
	service         TransactionServiceInterface
	user            *models.User
	other           *models.User
	checking        *models.Account
	savings         *models.Account
	foreignAccount  *models.Account
}

// SetupTest initializes the test suite before each test
func (s *TransactionServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.transactionRepo = repositories.NewTransactionRepository(s.db.DB)
	s.accountRepo = repositories.NewAccountRepository(s.db.DB)
	s.service = NewTransactionService(s.transactionRepo, s.accountRepo, nil, slog.Default())

	s.user = database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")
	s.other = database.CreateTestUser(s.T(), s.db, "bob", "bob@example.com")
	s.checking = database.CreateTestAccount(s.T(), s.db, s.user, "Checking")
	s.savings = database.CreateTestAccount(s.T(), s.db, s.user, "Savings")
	s.foreignAccount = database.CreateTestAccount(s.T(), s.db, s.other, "Bob's Checking")
}

// TearDownTest cleans up after each test
func (s *TransactionServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

// TestTransactionServiceSuite runs the test suite
func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) newRequest(transactionType string, amount float64) *dto.CreateTransactionRequest {
	req := &dto.CreateTransactionRequest{
		AccountID: s.checking.ID,
		Amount:    decimal.NewFromFloat(amount),
		Type:      transactionType,
		Category:  "general",
		Date:      time.Now(),
	}
	if transactionType == models.TransactionTypeTransfer {
		req.ToAccountID = &s.savings.ID
	}
	return req
}

func (s *TransactionServiceTestSuite) balanceOf(accountID uuid.UUID) decimal.Decimal {
	account, err := s.accountRepo.GetByIDForUser(accountID, s.user.ID)
	s.Require().NoError(err)
	return account.Balance
}

// TestCreate_Income tests that recording income credits the account
func (s *TransactionServiceTestSuite) TestCreate_Income() {
	tx, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeIncome, 100))

	s.NoError(err)
	s.NotEqual(uuid.Nil, tx.ID)
	s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(100)))
}

// TestCreate_Expense tests that recording an expense debits the account
func (s *TransactionServiceTestSuite) TestCreate_Expense() {
	_, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeExpense, 40))

	s.NoError(err)
	s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(-40)))
}

// TestCreate_Transfer tests that a transfer moves funds between accounts
func (s *TransactionServiceTestSuite) TestCreate_Transfer() {
	_, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeTransfer, 25))

	s.NoError(err)
	s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(-25)))
	s.True(s.balanceOf(s.savings.ID).Equal(decimal.NewFromInt(25)))
}

// TestCreate_NormalizesType tests that type matching is case-insensitive
func (s *TransactionServiceTestSuite) TestCreate_NormalizesType() {
	req := s.newRequest(models.TransactionTypeIncome, 10)
	req.Type = "  INCOME "

	tx, err := s.service.Create(s.user.ID, req)

	s.NoError(err)
	s.Equal(models.TransactionTypeIncome, tx.Type)
}

// TestCreate_InvalidType tests rejection of unknown transaction types
func (s *TransactionServiceTestSuite) TestCreate_InvalidType() {
	req := s.newRequest(models.TransactionTypeIncome, 10)
	req.Type = "withdrawal"

	_, err := s.service.Create(s.user.ID, req)

	s.ErrorIs(err, models.ErrInvalidTransactionType)
}

// TestCreate_NonPositiveAmount tests rejection of zero and negative amounts
func (s *TransactionServiceTestSuite) TestCreate_NonPositiveAmount() {
	req := s.newRequest(models.TransactionTypeIncome, 0)

	_, err := s.service.Create(s.user.ID, req)

	s.ErrorIs(err, models.ErrInvalidAmount)

	req.Amount = decimal.NewFromInt(-5)
	_, err = s.service.Create(s.user.ID, req)

	s.ErrorIs(err, models.ErrInvalidAmount)
}

// TestCreate_TransferMissingTarget tests that transfers require a destination
func (s *TransactionServiceTestSuite) TestCreate_TransferMissingTarget() {
	req := s.newRequest(models.TransactionTypeTransfer, 25)
	req.ToAccountID = nil

	_, err := s.service.Create(s.user.ID, req)

	s.ErrorIs(err, models.ErrTransferTargetMissing)
}

// TestCreate_TransferSameAccount tests that self transfers are rejected
func (s *TransactionServiceTestSuite) TestCreate_TransferSameAccount() {
	req := s.newRequest(models.TransactionTypeTransfer, 25)
	req.ToAccountID = &s.checking.ID

	_, err := s.service.Create(s.user.ID, req)

	s.ErrorIs(err, models.ErrTransferSameAccount)
}

// TestCreate_ForeignAccount tests that another user's account looks missing
func (s *TransactionServiceTestSuite) TestCreate_ForeignAccount() {
	req := s.newRequest(models.TransactionTypeIncome, 10)
	req.AccountID = s.foreignAccount.ID

	_, err := s.service.Create(s.user.ID, req)

	s.ErrorIs(err, repositories.ErrAccountNotFound)
}

// TestCreate_ForeignTransferTarget tests ownership of the destination account
func (s *TransactionServiceTestSuite) TestCreate_ForeignTransferTarget() {
	req := s.newRequest(models.TransactionTypeTransfer, 10)
	req.ToAccountID = &s.foreignAccount.ID

	_, err := s.service.Create(s.user.ID, req)

	s.ErrorIs(err, repositories.ErrAccountNotFound)
	s.True(s.balanceOf(s.checking.ID).IsZero())
}

// TestUpdate_ChangesAmountAndType tests that an update nets out the old
// effects before applying the new ones
func (s *TransactionServiceTestSuite) TestUpdate_ChangesAmountAndType() {
	tx, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeIncome, 50))
	s.Require().NoError(err)

	update := &dto.UpdateTransactionRequest{
		AccountID: s.checking.ID,
		Amount:    decimal.NewFromInt(30),
		Type:      models.TransactionTypeExpense,
		Category:  "groceries",
		Date:      time.Now(),
	}

	updated, err := s.service.Update(tx.ID, s.user.ID, update)

	s.NoError(err)
	s.Equal(tx.ID, updated.ID)
	s.Equal(models.TransactionTypeExpense, updated.Type)
	s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(-30)))
}

// TestUpdate_MovesBetweenAccounts tests that effects follow the account
func (s *TransactionServiceTestSuite) TestUpdate_MovesBetweenAccounts() {
	tx, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeIncome, 80))
	s.Require().NoError(err)

	update := &dto.UpdateTransactionRequest{
		AccountID: s.savings.ID,
		Amount:    decimal.NewFromInt(80),
		Type:      models.TransactionTypeIncome,
		Category:  "general",
		Date:      time.Now(),
	}

	_, err = s.service.Update(tx.ID, s.user.ID, update)

	s.NoError(err)
	s.True(s.balanceOf(s.checking.ID).IsZero())
	s.True(s.balanceOf(s.savings.ID).Equal(decimal.NewFromInt(80)))
}

// TestUpdate_ForeignUser tests that other users cannot reach the record
func (s *TransactionServiceTestSuite) TestUpdate_ForeignUser() {
	tx, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeIncome, 50))
	s.Require().NoError(err)

	update := &dto.UpdateTransactionRequest{
		AccountID: s.checking.ID,
		Amount:    decimal.NewFromInt(1),
		Type:      models.TransactionTypeIncome,
		Category:  "general",
		Date:      time.Now(),
	}

	_, err = s.service.Update(tx.ID, s.other.ID, update)

	s.ErrorIs(err, repositories.ErrTransactionNotFound)
	s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(50)))
}

// TestDelete_ReversesEffects tests that deleting restores the balances
func (s *TransactionServiceTestSuite) TestDelete_ReversesEffects() {
	tx, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeTransfer, 25))
	s.Require().NoError(err)

	s.NoError(s.service.Delete(tx.ID, s.user.ID))

	s.True(s.balanceOf(s.checking.ID).IsZero())
	s.True(s.balanceOf(s.savings.ID).IsZero())

	_, err = s.service.GetByID(tx.ID, s.user.ID)
	s.ErrorIs(err, repositories.ErrTransactionNotFound)
}

// TestDelete_ForeignUser tests that other users cannot delete the record
func (s *TransactionServiceTestSuite) TestDelete_ForeignUser() {
	tx, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeIncome, 50))
	s.Require().NoError(err)

	err = s.service.Delete(tx.ID, s.other.ID)

	s.ErrorIs(err, repositories.ErrTransactionNotFound)
	s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(50)))
}

// TestListForUser tests listing with user isolation
func (s *TransactionServiceTestSuite) TestListForUser() {
	_, err := s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeIncome, 100))
	s.Require().NoError(err)
	_, err = s.service.Create(s.user.ID, s.newRequest(models.TransactionTypeExpense, 30))
	s.Require().NoError(err)

	mine, err := s.service.ListForUser(s.user.ID)
	s.NoError(err)
	s.Len(mine, 2)

	theirs, err := s.service.ListForUser(s.other.ID)
	s.NoError(err)
	s.Empty(theirs)
}
