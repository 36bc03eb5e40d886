package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines user data storage.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error)
}
