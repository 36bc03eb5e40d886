package user

import (
	"time"

	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/google/uuid"
)

// User is an account that can sign in. StoreID is set only for store managers.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         identity.Role `json:"role"`
	StoreID      *uuid.UUID    `json:"store_id,omitempty"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Actor returns the identity a signed-in user acts as.
func (u *User) Actor() identity.Actor {
	return identity.Actor{UserID: u.ID, Username: u.Username, Role: u.Role, StoreID: u.StoreID}
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return comparePassword(u.PasswordHash, password) == nil
}

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	Username string        `json:"username" validate:"required,min=3,max=80"`
	Email    string        `json:"email" validate:"required,email,max=120"`
	Password string        `json:"password" validate:"required,min=6"`
	Role     identity.Role `json:"role" validate:"required,oneof=admin store_manager supplier"`
	StoreID  *uuid.UUID    `json:"store_id,omitempty"`
}

// UpdateUserRequest replaces the editable fields of an account.
// An empty Password keeps the current one.
type UpdateUserRequest struct {
	Email    string        `json:"email" validate:"required,email,max=120"`
	Role     identity.Role `json:"role" validate:"required,oneof=admin store_manager supplier"`
	StoreID  *uuid.UUID    `json:"store_id,omitempty"`
	IsActive *bool         `json:"is_active,omitempty"`
	Password string        `json:"password,omitempty" validate:"omitempty,min=6"`
}
