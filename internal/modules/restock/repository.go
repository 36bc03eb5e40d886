package restock

import (
	"context"

	"github.com/google/uuid"
)

// RequestFilter narrows request listings. Zero values mean unfiltered.
type RequestFilter struct {
	StoreID *uuid.UUID
	Status  RequestStatus
	// VisibleToSupplier keeps every pending request plus those this supplier processed.
	VisibleToSupplier *uuid.UUID
	Limit             int
}

// ShipmentFilter narrows shipment listings. Zero values mean unfiltered.
type ShipmentFilter struct {
	SupplierID *uuid.UUID
	StoreID    *uuid.UUID
}

// ShipmentUpdate is everything one shipment status change writes.
type ShipmentUpdate struct {
	Shipment       *Shipment
	PreviousStatus ShipmentStatus
	// MarkRequestShipped moves the owning request to shipped.
	MarkRequestShipped bool
	// RestockQuantity is added to the product's stock when positive.
	RestockQuantity int
}

// Repository defines restock request and shipment storage.
type Repository interface {
	CreateRequest(ctx context.Context, r *RestockRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*RestockRequest, error)
	ListRequests(ctx context.Context, f RequestFilter) ([]*RestockRequest, error)
	// Approve marks a pending request approved and creates its shipment atomically.
	Approve(ctx context.Context, r *RestockRequest, s *Shipment) error
	// Reject marks a pending request rejected.
	Reject(ctx context.Context, r *RestockRequest) error

	GetShipment(ctx context.Context, id uuid.UUID) (*Shipment, error)
	ListShipments(ctx context.Context, f ShipmentFilter) ([]*Shipment, error)
	// ApplyShipmentUpdate commits every write of u in one transaction.
	ApplyShipmentUpdate(ctx context.Context, u ShipmentUpdate) error
}
