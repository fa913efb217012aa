package handlers

import (
	"errors"
	"net/http"

	"fintrack-api/internal/dto"
	apierrors "fintrack-api/internal/errors"
	"fintrack-api/internal/models"
	"fintrack-api/internal/repositories"
	"fintrack-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile and admin endpoints
type UserHandler struct {
	userService services.UserServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService services.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the authenticated user's profile
// @Summary Get current user
// @Description Get the profile of the authenticated user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse{data=dto.UserResponse} "Current user profile"
// @Failure 401 {object} errors.ErrorResponse "Missing or invalid token - AUTH_002"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, apierrors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toUserResponse(user),
	})
}

// UpdateMe updates the authenticated user's profile
// @Summary Update current user
// @Description Apply partial changes to the authenticated user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "Profile changes"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 409 {object} errors.ErrorResponse "Email or username already taken - USER_002 or USER_003"
// @Router /user/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, apierrors.AuthMissingToken)
	}

	return h.updateUser(c, userID)
}

// List returns all users (admin only)
// @Summary List users
// @Description Get a paginated list of all users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {object} SuccessResponse{data=dto.UserListResponse} "Users"
// @Failure 403 {object} errors.ErrorResponse "Admin role required - AUTH_005"
// @Router /user [get]
func (h *UserHandler) List(c echo.Context) error {
	offset := getIntParam(c, "offset", 0)
	limit := getIntParam(c, "limit", 50)

	users, total, err := h.userService.List(offset, limit)
	if err != nil {
		return SendSystemError(c, err)
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: dto.UserListResponse{
			Users: responses,
			Count: len(responses),
		},
		Meta: map[string]interface{}{
			"total":  total,
			"offset": offset,
			"limit":  limit,
		},
	})
}

// Get returns a user by ID (admin only)
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse} "User"
// @Failure 400 {object} errors.ErrorResponse "Invalid user ID - USER_004"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.UserInvalidID)
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, apierrors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: toUserResponse(user),
	})
}

// Update updates a user by ID (admin only)
// @Summary Update user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Profile changes"
// @Success 200 {object} SuccessResponse{data=dto.UserResponse} "Updated user"
// @Failure 400 {object} errors.ErrorResponse "Invalid user ID - USER_004"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /user/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.UserInvalidID)
	}

	return h.updateUser(c, userID)
}

// Delete removes a user by ID (admin only)
// @Summary Delete user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse "User deleted"
// @Failure 400 {object} errors.ErrorResponse "Invalid user ID - USER_004"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, apierrors.UserInvalidID)
	}

	if err := h.userService.Delete(userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return SendError(c, apierrors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "User deleted successfully",
	})
}

func (h *UserHandler) updateUser(c echo.Context, userID uuid.UUID) error {
	var req dto.UpdateUserRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userService.Update(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return SendError(c, apierrors.UserNotFound)
		case errors.Is(err, repositories.ErrEmailTaken):
			return SendError(c, apierrors.UserEmailTaken)
		case errors.Is(err, repositories.ErrUsernameTaken):
			return SendError(c, apierrors.UserUsernameTaken)
		case errors.Is(err, services.ErrPasswordTooShort), errors.Is(err, services.ErrPasswordTooLong), errors.Is(err, services.ErrPasswordEmpty):
			return SendError(c, apierrors.ValidationGeneral, apierrors.WithDetails(err.Error()))
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    toUserResponse(user),
		Message: "User updated successfully",
	})
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
