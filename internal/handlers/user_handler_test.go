package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack-api/internal/database"
	"fintrack-api/internal/dto"
	apierrors "fintrack-api/internal/errors"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"
	"fintrack-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerSuite))
}

type UserHandlerSuite struct {
	suite.Suite
	db      *database.DB
	service services.UserServiceInterface
	handler *UserHandler
	e       *echo.Echo
	user    *models.User
}

func (s *UserHandlerSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.service = services.NewUserService(
		repositories.NewUserRepository(s.db.DB),
		services.NewPasswordService(bcrypt.MinCost, 8),
		slog.Default(),
	)
	s.handler = NewUserHandler(s.service)
	s.e = echo.New()
	s.e.Validator = NewValidator()

	s.user = database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")
}

func (s *UserHandlerSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserHandlerSuite) newContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
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

func (s *UserHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var response apierrors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response.Error.Code
}

func (s *UserHandlerSuite) TestMe() {
	s.Run("returns profile without password hash", func() {
		c, rec := s.newContext(http.MethodGet, "/user/me", nil)

		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusOK, rec.Code)

		var response struct {
			Data dto.UserResponse `json:"data"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("alice", response.Data.Username)
		s.NotContains(rec.Body.String(), "password")
	})

	s.Run("requires auth context", func() {
		c, rec := s.newContext(http.MethodGet, "/user/me", nil)
		c.Set("user_id", nil)

		s.NoError(s.handler.Me(c))
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal(string(apierrors.AuthMissingToken), s.errorCode(rec))
	})
}

func (s *UserHandlerSuite) TestUpdateMe() {
	s.Run("updates username", func() {
		newUsername := "alice2"
		c, rec := s.newContext(http.MethodPut, "/user/me", dto.UpdateUserRequest{Username: &newUsername})

		s.NoError(s.handler.UpdateMe(c))
		s.Equal(http.StatusOK, rec.Code)

		var response struct {
			Data dto.UserResponse `json:"data"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
		s.Equal("alice2", response.Data.Username)
	})

	s.Run("rejects taken email", func() {
		database.CreateTestUser(s.T(), s.db, "bob", "bob@example.com")

		taken := "bob@example.com"
		c, rec := s.newContext(http.MethodPut, "/user/me", dto.UpdateUserRequest{Email: &taken})

		s.NoError(s.handler.UpdateMe(c))
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal(string(apierrors.UserEmailTaken), s.errorCode(rec))
	})
}

func (s *UserHandlerSuite) TestList() {
	database.CreateTestUser(s.T(), s.db, "bob", "bob@example.com")

	c, rec := s.newContext(http.MethodGet, "/user?offset=0&limit=10", nil)

	s.NoError(s.handler.List(c))
	s.Equal(http.StatusOK, rec.Code)

	var response struct {
		Data dto.UserListResponse   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(2, response.Data.Count)
	s.EqualValues(2, response.Meta["total"])
}

func (s *UserHandlerSuite) TestGet() {
	s.Run("finds user by id", func() {
		c, rec := s.newContext(http.MethodGet, "/user/"+s.user.ID.String(), nil)
		c.SetParamNames("id")
		c.SetParamValues(s.user.ID.String())

		s.NoError(s.handler.Get(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown user", func() {
		unknown := uuid.New()
		c, rec := s.newContext(http.MethodGet, "/user/"+unknown.String(), nil)
		c.SetParamNames("id")
		c.SetParamValues(unknown.String())

		s.NoError(s.handler.Get(c))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apierrors.UserNotFound), s.errorCode(rec))
	})

	s.Run("malformed id", func() {
		c, rec := s.newContext(http.MethodGet, "/user/not-a-uuid", nil)
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		s.NoError(s.handler.Get(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apierrors.UserInvalidID), s.errorCode(rec))
	})
}

func (s *UserHandlerSuite) TestDelete() {
	s.Run("removes user", func() {
		victim := database.CreateTestUser(s.T(), s.db, "bob", "bob@example.com")

		c, rec := s.newContext(http.MethodDelete, "/user/"+victim.ID.String(), nil)
		c.SetParamNames("id")
		c.SetParamValues(victim.ID.String())

		s.NoError(s.handler.Delete(c))
		s.Equal(http.StatusOK, rec.Code)

		_, err := s.service.GetByID(victim.ID)
		s.ErrorIs(err, repositories.ErrUserNotFound)
	})

	s.Run("malformed id", func() {
		c, rec := s.newContext(http.MethodDelete, "/user/nope", nil)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		s.NoError(s.handler.Delete(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apierrors.UserInvalidID), s.errorCode(rec))
	})
}
