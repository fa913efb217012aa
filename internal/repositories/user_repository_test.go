package repositories

import (
	"testing"

	"fintrack-api/internal/database"
	"fintrack-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// UserRepositorySuite defines the test suite for userRepository
type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) newUser(username, email string) *models.User {
	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hashed_password",
		Role:         models.RoleUser,
	}
}

func (s *UserRepositorySuite) TestCreate() {
	user := s.newUser("alice", "alice@example.com")

	s.NoError(s.repo.Create(user))
	s.NotEqual(uuid.Nil, user.ID)
	s.Equal(models.RoleUser, user.Role)
}

func (s *UserRepositorySuite) TestCreate_DuplicateEmail() {
	s.NoError(s.repo.Create(s.newUser("alice", "alice@example.com")))

	err := s.repo.Create(s.newUser("alice2", "alice@example.com"))
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *UserRepositorySuite) TestCreate_DuplicateUsername() {
	s.NoError(s.repo.Create(s.newUser("alice", "alice@example.com")))

	err := s.repo.Create(s.newUser("alice", "alice2@example.com"))
	s.ErrorIs(err, ErrUsernameTaken)
}

func (s *UserRepositorySuite) TestGetByEmail() {
	user := s.newUser("alice", "alice@example.com")
	s.NoError(s.repo.Create(user))

	found, err := s.repo.GetByEmail("alice@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)
}

func (s *UserRepositorySuite) TestGetByEmail_NotFound() {
	_, err := s.repo.GetByEmail("ghost@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestUpdateFields() {
	user := s.newUser("alice", "alice@example.com")
	s.NoError(s.repo.Create(user))

	s.NoError(s.repo.UpdateFields(user.ID, map[string]interface{}{"username": "alice-renamed"}))

	found, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.Equal("alice-renamed", found.Username)
}

func (s *UserRepositorySuite) TestUpdateFields_DuplicateEmail() {
	s.NoError(s.repo.Create(s.newUser("alice", "alice@example.com")))
	bob := s.newUser("bob", "bob@example.com")
	s.NoError(s.repo.Create(bob))

	err := s.repo.UpdateFields(bob.ID, map[string]interface{}{"email": "alice@example.com"})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *UserRepositorySuite) TestDelete() {
	user := s.newUser("alice", "alice@example.com")
	s.NoError(s.repo.Create(user))

	s.NoError(s.repo.Delete(user.ID))

	_, err := s.repo.GetByID(user.ID)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestDelete_NotFound() {
	s.ErrorIs(s.repo.Delete(uuid.New()), ErrUserNotFound)
}

func (s *UserRepositorySuite) TestGetAll() {
	s.NoError(s.repo.Create(s.newUser("alice", "alice@example.com")))
	s.NoError(s.repo.Create(s.newUser("bob", "bob@example.com")))
	s.NoError(s.repo.Create(s.newUser("carol", "carol@example.com")))

	users, total, err := s.repo.GetAll(0, 2)
	s.Require().NoError(err)
	s.Len(users, 2)
	s.EqualValues(3, total)
}
