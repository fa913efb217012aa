package services

import (
	"fmt"
	"log/slog"

	"fintrack-api/internal/dto"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"

	"github.com/google/uuid"
)

// UserService handles user profile and admin operations
type UserService struct {
	userRepo        repositories.UserRepositoryInterface
	passwordService PasswordServiceInterface
	logger          *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	passwordService PasswordServiceInterface,
	logger *slog.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:        userRepo,
		passwordService: passwordService,
		logger:          logger,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// List returns a page of users with the total count
func (s *UserService) List(offset, limit int) ([]models.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.GetAll(offset, limit)
}

// Update applies partial profile changes to a user
func (s *UserService) Update(userID uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	fields := make(map[string]interface{})

	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := s.passwordService.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
		s.logger.Info("user updated", "user_id", userID)
	}

	return s.userRepo.GetByID(userID)
}

// Delete soft-deletes a user
func (s *UserService) Delete(userID uuid.UUID) error {
	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
