package services

import (
	"log/slog"
	"testing"

	"fintrack-api/internal/database"
	"fintrack-api/internal/dto"
	"fintrack-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceTestSuite is the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db              *database.DB
	service         UserServiceInterface
	passwordService PasswordServiceInterface
}

// SetupTest initializes the test suite before each test
func (s *UserServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.passwordService = NewPasswordService(bcrypt.MinCost, 8)
	s.service = NewUserService(
		repositories.NewUserRepository(s.db.DB),
		s.passwordService,
		slog.Default(),
	)
}

// TearDownTest cleans up after each test
func (s *UserServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

// TestUserServiceSuite runs the test suite
func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

// TestGetByID tests fetching a user by ID
func (s *UserServiceTestSuite) TestGetByID() {
	created := database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")

	user, err := s.service.GetByID(created.ID)

	s.NoError(err)
	s.Equal("alice", user.Username)
	s.Equal("alice@example.com", user.Email)
}

// TestGetByID_Unknown tests the not-found case
func (s *UserServiceTestSuite) TestGetByID_Unknown() {
	_, err := s.service.GetByID(uuid.New())

	s.ErrorIs(err, repositories.ErrUserNotFound)
}

// TestList_ClampsPagination tests offset and limit clamping
func (s *UserServiceTestSuite) TestList_ClampsPagination() {
	database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")
	database.CreateTestUser(s.T(), s.db, "bob", "bob@example.com")
	database.CreateTestUser(s.T(), s.db, "carol", "carol@example.com")

	s.Run("zero limit defaults to fifty", func() {
		users, total, err := s.service.List(0, 0)
		s.NoError(err)
		s.Len(users, 3)
		s.Equal(int64(3), total)
	})

	s.Run("oversized limit is capped", func() {
		users, total, err := s.service.List(0, 200)
		s.NoError(err)
		s.Len(users, 3)
		s.Equal(int64(3), total)
	})

	s.Run("negative offset is zeroed", func() {
		users, _, err := s.service.List(-10, 2)
		s.NoError(err)
		s.Len(users, 2)
	})

	s.Run("offset past the end", func() {
		users, total, err := s.service.List(10, 50)
		s.NoError(err)
		s.Empty(users)
		s.Equal(int64(3), total)
	})
}

// TestUpdate_Profile tests partial profile updates
func (s *UserServiceTestSuite) TestUpdate_Profile() {
	created := database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")

	newUsername := "alice2"
	newEmail := "alice2@example.com"
	updated, err := s.service.Update(created.ID, &dto.UpdateUserRequest{
		Username: &newUsername,
		Email:    &newEmail,
	})

	s.NoError(err)
	s.Equal("alice2", updated.Username)
	s.Equal("alice2@example.com", updated.Email)
}

// TestUpdate_Password tests that a new password is hashed before storage
func (s *UserServiceTestSuite) TestUpdate_Password() {
	created := database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")

	newPassword := "brand-new-pass"
	updated, err := s.service.Update(created.ID, &dto.UpdateUserRequest{Password: &newPassword})

	s.NoError(err)
	s.NotEqual(newPassword, updated.PasswordHash)
	s.True(s.passwordService.ComparePassword(newPassword, updated.PasswordHash))
}

// TestUpdate_DuplicateEmail tests the unique constraint translation
func (s *UserServiceTestSuite) TestUpdate_DuplicateEmail() {
	database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")
	bob := database.CreateTestUser(s.T(), s.db, "bob", "bob@example.com")

	taken := "alice@example.com"
	_, err := s.service.Update(bob.ID, &dto.UpdateUserRequest{Email: &taken})

	s.ErrorIs(err, repositories.ErrEmailTaken)
}

// TestUpdate_NoFields returns the current user unchanged
func (s *UserServiceTestSuite) TestUpdate_NoFields() {
	created := database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")

	updated, err := s.service.Update(created.ID, &dto.UpdateUserRequest{})

	s.NoError(err)
	s.Equal(created.Username, updated.Username)
}

// TestUpdate_UnknownUser tests updating a user that does not exist
func (s *UserServiceTestSuite) TestUpdate_UnknownUser() {
	newUsername := "ghost"
	_, err := s.service.Update(uuid.New(), &dto.UpdateUserRequest{Username: &newUsername})

	s.ErrorIs(err, repositories.ErrUserNotFound)
}

// TestDelete tests removing a user
func (s *UserServiceTestSuite) TestDelete() {
	created := database.CreateTestUser(s.T(), s.db, "alice", "alice@example.com")

	s.NoError(s.service.Delete(created.ID))

	_, err := s.service.GetByID(created.ID)
	s.ErrorIs(err, repositories.ErrUserNotFound)
}
