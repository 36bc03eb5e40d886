package restock

import (
	"time"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a restock request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
	RequestShipped  RequestStatus = "shipped"
)

// requestTransitions lists the moves a request may make. approved -> shipped
// happens only as a side effect of its shipment being dispatched.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestApproved, RequestRejected},
	RequestApproved: {RequestShipped},
	RequestRejected: {},
	RequestShipped:  {},
}

// CanTransitionRequest returns true if a request may move from current to next.
func CanTransitionRequest(current, next RequestStatus) bool {
	for _, s := range requestTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// ParseRequestStatus accepts a status filter; "" and "all" mean no filter.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch s {
	case "", "all":
		return "", nil
	case string(RequestPending), string(RequestApproved), string(RequestRejected), string(RequestShipped):
		return RequestStatus(s), nil
	}
	return "", apperr.Validation("Invalid status filter %q.", s)
}

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "preparing"
	ShipmentShipped   ShipmentStatus = "shipped"
	ShipmentDelivered ShipmentStatus = "delivered"
	// ShipmentCancelled is a valid stored value that no operation produces yet.
	ShipmentCancelled ShipmentStatus = "cancelled"
)

var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentPreparing: {ShipmentShipped},
	ShipmentShipped:   {ShipmentDelivered},
	ShipmentDelivered: {},
	ShipmentCancelled: {},
}

// CanTransitionShipment returns true if a shipment may move from current to next.
// Staying in the same status is allowed so tracking details can be edited.
func CanTransitionShipment(current, next ShipmentStatus) bool {
	if _, ok := shipmentTransitions[current]; !ok {
		return false
	}
	if current == next {
		return true
	}
	for _, s := range shipmentTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// RestockRequest asks a supplier to replenish one product for one store.
type RestockRequest struct {
	ID                uuid.UUID     `json:"id"`
	StoreID           uuid.UUID     `json:"store_id"`
	ProductID         uuid.UUID     `json:"product_id"`
	RequestedQuantity int           `json:"requested_quantity"`
	Status            RequestStatus `json:"status"`
	SupplierID        *uuid.UUID    `json:"supplier_id,omitempty"`
	RequestedBy       uuid.UUID     `json:"requested_by"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	ProductName string `json:"product_name,omitempty"`
	StoreName   string `json:"store_name,omitempty"`
}

// Shipment tracks the delivery that fulfils an approved request.
type Shipment struct {
	ID                   uuid.UUID      `json:"id"`
	RestockRequestID     uuid.UUID      `json:"restock_request_id"`
	SupplierID           uuid.UUID      `json:"supplier_id"`
	Status               ShipmentStatus `json:"status"`
	TrackingNumber       string         `json:"tracking_number,omitempty"`
	ShippedDate          *time.Time     `json:"shipped_date,omitempty"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time     `json:"actual_delivery_date,omitempty"`
	Notes                string         `json:"notes,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	// Read from the owning request.
	StoreID           uuid.UUID `json:"store_id"`
	ProductID         uuid.UUID `json:"product_id"`
	RequestedQuantity int       `json:"requested_quantity"`
	ProductName       string    `json:"product_name,omitempty"`
	StoreName         string    `json:"store_name,omitempty"`
}

// CreateRequest is the payload a store manager submits.
type CreateRequest struct {
	ProductID         uuid.UUID `json:"product_id" validate:"required"`
	RequestedQuantity int       `json:"requested_quantity" validate:"gt=0"`
	Notes             string    `json:"notes"`
}

// ApproveRequest is the payload a supplier submits when accepting a request.
// A nil ExpectedDeliveryDate defaults to one week out.
type ApproveRequest struct {
	TrackingNumber       string     `json:"tracking_number" validate:"max=100"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	Notes                string     `json:"notes"`
}

// RejectRequest carries the supplier's reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// UpdateShipmentRequest advances a shipment. Nil fields are left unchanged.
type UpdateShipmentRequest struct {
	Status         ShipmentStatus `json:"status" validate:"required"`
	TrackingNumber *string        `json:"tracking_number,omitempty" validate:"omitempty,max=100"`
	Notes          *string        `json:"notes,omitempty"`
}

// DefaultDeliveryWindow is used when a supplier approves without a delivery date.
const DefaultDeliveryWindow = 7 * 24 * time.Hour

var (
	ErrAlreadyProcessed  = apperr.New(apperr.KindDomain, "already_processed", "This request has already been processed.")
	ErrInvalidTransition = apperr.New(apperr.KindDomain, "invalid_transition", "Invalid status transition.")
	ErrConcurrentUpdate  = apperr.New(apperr.KindConflict, "concurrent_update", "The shipment was changed by another request. Reload and try again.")
)
