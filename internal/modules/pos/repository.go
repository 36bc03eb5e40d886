package pos

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for sales.
type Repository interface {
	// Create decrements product stock and inserts the sale in one transaction.
	Create(ctx context.Context, sale *Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// List returns the newest sales first, for one store or all when storeID is nil.
	// A limit of zero means no limit.
	List(ctx context.Context, storeID *uuid.UUID, limit int) ([]*Sale, error)
}
