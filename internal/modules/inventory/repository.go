package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StoreRepository defines store data storage.
type StoreRepository interface {
	Create(ctx context.Context, s *Store) error
	Update(ctx context.Context, s *Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	List(ctx context.Context) ([]*Store, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines product data storage.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// List returns products of one store, or of every store when storeID is nil.
	List(ctx context.Context, storeID *uuid.UUID) ([]*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImageKey(ctx context.Context, id uuid.UUID, key *string) error
}
