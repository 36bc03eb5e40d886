package user

import (
	"context"

	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/google/uuid"
)

// Service defines user management. Every operation is admin only.
type Service interface {
	CreateUser(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateUserRequest) (*User, error)
	GetUser(ctx context.Context, actor identity.Actor, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, actor identity.Actor) ([]*User, error)
}
