package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack-api/internal/database"
	"fintrack-api/internal/dto"
	apierrors "fintrack-api/internal/errors"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"
	"fintrack-api/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerSuite))
}

type TransactionHandlerSuite struct {
	suite.Suite
	db          *database.DB
	accountRepo repositories.AccountRepositoryInterface
	service     services.TransactionServiceInterface
	handler     *TransactionHandler
	e           *echo.Echo
	user        *models.User
	checking    *models.Account
	savings     *models.Account
}

func (s *TransactionHandlerSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.accountRepo = repositories.NewAccountRepository(s.db.DB)
	s.service = services.NewTransactionService(
		repositories.NewTransactionRepository(s.db.DB),
		s.accountRepo,
		nil,
		slog.Default(),
	)
	s.handler = NewTransactionHandler(s.service)
	s.e = echo.New()
	s.e.Validator = NewValidator()

	s.user = database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")
	s.checking = database.CreateTestAccount(s.T(), s.db, s.user, "Checking")
	s.savings = database.CreateTestAccount(s.T(), s.db, s.user, "Savings")
}

func (s *TransactionHandlerSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

// newContext builds an authenticated echo context the way RequireAuth would
func (s *TransactionHandlerSuite) newContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set("user_id", s.user.ID)
	return c, rec
}

func (s *TransactionHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var response apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response.Error.Code
}

func (s *TransactionHandlerSuite) createRequest(transactionType string, amount float64) dto.CreateTransactionRequest {
	req := dto.CreateTransactionRequest{
		AccountID: s.checking.ID,
		Amount:    decimal.NewFromFloat(amount),
		Type:      transactionType,
		Category:  "general",
		Date:      time.Now().UTC(),
	}
	if transactionType == models.TransactionTypeTransfer {
		req.ToAccountID = &s.savings.ID
	}
	return req
}

func (s *TransactionHandlerSuite) createTransaction(transactionType string, amount float64) uuid.UUID {
	tx, err := s.service.Create(s.user.ID, &dto.CreateTransactionRequest{
		AccountID:   s.checking.ID,
		ToAccountID: nil,
		Amount:      decimal.NewFromFloat(amount),
		Type:        transactionType,
		Category:    "general",
		Date:        time.Now().UTC(),
	})
	s.Require().NoError(err)
	return tx.ID
}

func (s *TransactionHandlerSuite) balanceOf(accountID uuid.UUID) decimal.Decimal {
	account, err := s.accountRepo.GetByIDForUser(accountID, s.user.ID)
	s.Require().NoError(err)
	return account.Balance
}

func (s *TransactionHandlerSuite) TestCreate() {
	s.Run("records income", func() {
		c, rec := s.newContext(http.MethodPost, "/api/trans", s.createRequest(models.TransactionTypeIncome, 100))

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusCreated, rec.Code)

		var response SuccessResponse
		s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.NotNil(response.Data)
		s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(100)))
	})

	s.Run("records transfer across accounts", func() {
		before := s.balanceOf(s.savings.ID)

		c, rec := s.newContext(http.MethodPost, "/api/trans", s.createRequest(models.TransactionTypeTransfer, 25))

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusCreated, rec.Code)
		s.True(s.balanceOf(s.savings.ID).Equal(before.Add(decimal.NewFromInt(25))))
	})

	s.Run("rejects unknown type", func() {
		body := s.createRequest(models.TransactionTypeIncome, 10)
		body.Type = "withdrawal"
		c, _ := s.newContext(http.MethodPost, "/api/trans", body)

		// the validator rejects the type before the service runs,
		// leaving the error to the HTTP error handler
		err := s.handler.Create(c)
		var validationErrs validator.ValidationErrors
		s.ErrorAs(err, &validationErrs)
	})

	s.Run("rejects non-positive amount", func() {
		body := s.createRequest(models.TransactionTypeExpense, 10)
		body.Amount = decimal.NewFromInt(-5)
		c, _ := s.newContext(http.MethodPost, "/api/trans", body)

		err := s.handler.Create(c)
		var validationErrs validator.ValidationErrors
		s.ErrorAs(err, &validationErrs)
		s.Equal("positive_amount", validationErrs[0].Tag())
	})

	s.Run("rejects transfer without destination", func() {
		body := s.createRequest(models.TransactionTypeTransfer, 10)
		body.ToAccountID = nil
		c, rec := s.newContext(http.MethodPost, "/api/trans", body)

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apierrors.TransactionMissingTarget), s.errorCode(rec))
	})

	s.Run("rejects destination on non-transfer", func() {
		body := s.createRequest(models.TransactionTypeIncome, 10)
		body.ToAccountID = &s.savings.ID
		c, rec := s.newContext(http.MethodPost, "/api/trans", body)

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apierrors.TransactionUnexpectedTarget), s.errorCode(rec))
	})

	s.Run("rejects self transfer", func() {
		body := s.createRequest(models.TransactionTypeTransfer, 10)
		body.ToAccountID = &s.checking.ID
		c, rec := s.newContext(http.MethodPost, "/api/trans", body)

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apierrors.TransactionSelfTransfer), s.errorCode(rec))
	})

	s.Run("unknown account reported as not found", func() {
		body := s.createRequest(models.TransactionTypeIncome, 10)
		body.AccountID = uuid.New()
		c, rec := s.newContext(http.MethodPost, "/api/trans", body)

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.AccountNotFound), s.errorCode(rec))
	})

	s.Run("missing auth context", func() {
		payload, _ := json.Marshal(s.createRequest(models.TransactionTypeIncome, 10))
		req := httptest.NewRequest(http.MethodPost, "/api/trans", bytes.NewBuffer(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := s.e.NewContext(req, rec)

		s.NoError(s.handler.Create(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *TransactionHandlerSuite) TestList() {
	s.createTransaction(models.TransactionTypeIncome, 100)
	s.createTransaction(models.TransactionTypeExpense, 30)

	c, rec := s.newContext(http.MethodGet, "/api/trans", nil)

	s.NoError(s.handler.List(c))
	s.Equal(http.StatusOK, rec.Code)

	var response struct {
		Data dto.TransactionListResponse `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(2, response.Data.Count)
	s.Len(response.Data.Transactions, 2)
	s.Equal("Checking", response.Data.Transactions[0].AccountName)
}

func (s *TransactionHandlerSuite) TestGet() {
	s.Run("found", func() {
		id := s.createTransaction(models.TransactionTypeIncome, 100)

		c, rec := s.newContext(http.MethodGet, "/api/trans/"+id.String(), nil)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		s.NoError(s.handler.Get(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown id", func() {
		c, rec := s.newContext(http.MethodGet, "/api/trans/"+uuid.NewString(), nil)
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())

		s.NoError(s.handler.Get(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.TransactionNotFound), s.errorCode(rec))
	})

	s.Run("malformed id", func() {
		c, rec := s.newContext(http.MethodGet, "/api/trans/nope", nil)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		s.NoError(s.handler.Get(c))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *TransactionHandlerSuite) TestUpdate() {
	id := s.createTransaction(models.TransactionTypeIncome, 50)

	s.Run("replaces record and rewrites effects", func() {
		update := dto.UpdateTransactionRequest{
			AccountID: s.checking.ID,
			Amount:    decimal.NewFromInt(30),
			Type:      models.TransactionTypeExpense,
			Category:  "groceries",
			Date:      time.Now().UTC(),
		}

		c, rec := s.newContext(http.MethodPut, "/api/trans/"+id.String(), update)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		s.NoError(s.handler.Update(c))
		s.Equal(http.StatusOK, rec.Code)
		s.True(s.balanceOf(s.checking.ID).Equal(decimal.NewFromInt(-30)))
	})

	s.Run("rejects destination on non-transfer", func() {
		update := dto.UpdateTransactionRequest{
			AccountID:   s.checking.ID,
			ToAccountID: &s.savings.ID,
			Amount:      decimal.NewFromInt(30),
			Type:        models.TransactionTypeExpense,
			Category:    "groceries",
			Date:        time.Now().UTC(),
		}

		c, rec := s.newContext(http.MethodPut, "/api/trans/"+id.String(), update)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		s.NoError(s.handler.Update(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apierrors.TransactionUnexpectedTarget), s.errorCode(rec))
	})
}

func (s *TransactionHandlerSuite) TestDelete() {
	s.Run("reverses effects", func() {
		id := s.createTransaction(models.TransactionTypeIncome, 50)
		before := s.balanceOf(s.checking.ID)

		c, rec := s.newContext(http.MethodDelete, "/api/trans/"+id.String(), nil)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		s.NoError(s.handler.Delete(c))
		s.Equal(http.StatusOK, rec.Code)
		s.True(s.balanceOf(s.checking.ID).Equal(before.Sub(decimal.NewFromInt(50))))
	})

	s.Run("unknown id", func() {
		c, rec := s.newContext(http.MethodDelete, "/api/trans/"+uuid.NewString(), nil)
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())

		s.NoError(s.handler.Delete(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.TransactionNotFound), s.errorCode(rec))
	})
}
