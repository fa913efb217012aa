package dto

import (
	"time"

	"github.com/google/uuid"
)

// User Request DTOs

// UpdateUserRequest contains mutable user profile fields
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// User Response DTOs

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse wraps a collection of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Count int            `json:"count"`
}
