package restock

import (
	"context"
	"strings"
	"time"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the restock request workflow and shipment tracking.
type Service interface {
	CreateRequest(ctx context.Context, actor identity.Actor, req CreateRequest) (*RestockRequest, error)
	ApproveRequest(ctx context.Context, actor identity.Actor, id uuid.UUID, req ApproveRequest) (*RestockRequest, *Shipment, error)
	RejectRequest(ctx context.Context, actor identity.Actor, id uuid.UUID, req RejectRequest) (*RestockRequest, error)
	GetRequest(ctx context.Context, actor identity.Actor, id uuid.UUID) (*RestockRequest, error)
	ListRequests(ctx context.Context, actor identity.Actor, status string) ([]*RestockRequest, error)

	UpdateShipment(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateShipmentRequest) (*Shipment, error)
	GetShipment(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Shipment, error)
	ListShipments(ctx context.Context, actor identity.Actor) ([]*Shipment, error)
}

// ProductReader looks up the product a request is for.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*inventory.Product, error)
}

type service struct {
	repo     Repository
	products ProductReader
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, products ProductReader, log *zap.Logger) Service {
	return &service{repo: repo, products: products, log: log, now: time.Now}
}

func (s *service) CreateRequest(ctx context.Context, actor identity.Actor, req CreateRequest) (*RestockRequest, error) {
	storeID, err := actor.ManagedStore()
	if err != nil {
		return nil, err
	}
	if req.RequestedQuantity <= 0 {
		return nil, apperr.Validation("Requested quantity must be greater than zero.")
	}
	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Forbidden("Invalid product for this store.")
		}
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, apperr.Forbidden("Invalid product for this store.")
	}

	r := &RestockRequest{
		ID:                uuid.New(),
		StoreID:           storeID,
		ProductID:         product.ID,
		RequestedQuantity: req.RequestedQuantity,
		Status:            RequestPending,
		RequestedBy:       actor.UserID,
		Notes:             strings.TrimSpace(req.Notes),
		ProductName:       product.Name,
	}
	if err := s.repo.CreateRequest(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("restock request created",
		zap.String("request_id", r.ID.String()),
		zap.String("product_id", r.ProductID.String()),
		zap.Int("quantity", r.RequestedQuantity))
	return r, nil
}

func (s *service) ApproveRequest(ctx context.Context, actor identity.Actor, id uuid.UUID, req ApproveRequest) (*RestockRequest, *Shipment, error) {
	if err := actor.Require(identity.RoleSupplier); err != nil {
		return nil, nil, err
	}
	r, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !CanTransitionRequest(r.Status, RequestApproved) {
		return nil, nil, ErrAlreadyProcessed
	}

	expected := s.now().Add(DefaultDeliveryWindow)
	if req.ExpectedDeliveryDate != nil {
		expected = *req.ExpectedDeliveryDate
	}
	supplierID := actor.UserID
	r.Status = RequestApproved
	r.SupplierID = &supplierID

	shipment := &Shipment{
		ID:                   uuid.New(),
		RestockRequestID:     r.ID,
		SupplierID:           supplierID,
		Status:               ShipmentPreparing,
		TrackingNumber:       strings.TrimSpace(req.TrackingNumber),
		ExpectedDeliveryDate: &expected,
		Notes:                strings.TrimSpace(req.Notes),
		StoreID:              r.StoreID,
		ProductID:            r.ProductID,
		RequestedQuantity:    r.RequestedQuantity,
		ProductName:          r.ProductName,
		StoreName:            r.StoreName,
	}
	if err := s.repo.Approve(ctx, r, shipment); err != nil {
		return nil, nil, err
	}
	s.log.Info("restock request approved",
		zap.String("request_id", r.ID.String()),
		zap.String("supplier_id", supplierID.String()),
		zap.String("shipment_id", shipment.ID.String()))
	return r, shipment, nil
}

func (s *service) RejectRequest(ctx context.Context, actor identity.Actor, id uuid.UUID, req RejectRequest) (*RestockRequest, error) {
	if err := actor.Require(identity.RoleSupplier); err != nil {
		return nil, err
	}
	r, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionRequest(r.Status, RequestRejected) {
		return nil, ErrAlreadyProcessed
	}

	supplierID := actor.UserID
	r.Status = RequestRejected
	r.SupplierID = &supplierID
	r.Notes = strings.TrimSpace(req.Reason)
	if err := s.repo.Reject(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("restock request rejected",
		zap.String("request_id", r.ID.String()),
		zap.String("supplier_id", supplierID.String()))
	return r, nil
}

func (s *service) GetRequest(ctx context.Context, actor identity.Actor, id uuid.UUID) (*RestockRequest, error) {
	r, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeRequest(actor, r) {
		return nil, apperr.Forbidden("You do not have permission to view this request.")
	}
	return r, nil
}

// ListRequests applies the role scope: managers see their store, suppliers see
// the open queue plus what they processed, admins see everything.
func (s *service) ListRequests(ctx context.Context, actor identity.Actor, status string) ([]*RestockRequest, error) {
	st, err := ParseRequestStatus(status)
	if err != nil {
		return nil, err
	}
	f := RequestFilter{Status: st}
	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleStoreManager:
		storeID, err := actor.ManagedStore()
		if err != nil {
			return nil, err
		}
		f.StoreID = &storeID
	case identity.RoleSupplier:
		supplierID := actor.UserID
		f.VisibleToSupplier = &supplierID
	default:
		return nil, apperr.Forbidden("You do not have permission to view restock requests.")
	}
	return s.repo.ListRequests(ctx, f)
}

func canSeeRequest(actor identity.Actor, r *RestockRequest) bool {
	switch actor.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleStoreManager:
		return actor.RequireStore(r.StoreID) == nil
	case identity.RoleSupplier:
		return r.Status == RequestPending || (r.SupplierID != nil && *r.SupplierID == actor.UserID)
	}
	return false
}

// UpdateShipment moves a shipment along preparing -> shipped -> delivered.
// The first move to shipped stamps shipped_date and marks the request shipped;
// the first move to delivered stamps actual_delivery_date and restocks the
// product. Repeating a status only edits tracking and notes.
func (s *service) UpdateShipment(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateShipmentRequest) (*Shipment, error) {
	if err := actor.Require(identity.RoleSupplier); err != nil {
		return nil, err
	}
	sh, err := s.repo.GetShipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.SupplierID != actor.UserID {
		return nil, apperr.Forbidden("You do not have permission to update this shipment.")
	}

	next := ShipmentStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if _, known := shipmentTransitions[next]; !known {
		return nil, apperr.Validation("Invalid shipment status %q.", req.Status)
	}
	if next == ShipmentCancelled {
		return nil, apperr.Validation("Shipments cannot be cancelled.")
	}
	if !CanTransitionShipment(sh.Status, next) {
		return nil, ErrInvalidTransition.WithMessage("Cannot change shipment status from %s to %s.", sh.Status, next)
	}

	u := ShipmentUpdate{Shipment: sh, PreviousStatus: sh.Status}
	now := s.now()
	sh.Status = next
	if req.TrackingNumber != nil {
		sh.TrackingNumber = strings.TrimSpace(*req.TrackingNumber)
	}
	if req.Notes != nil {
		sh.Notes = strings.TrimSpace(*req.Notes)
	}
	if next == ShipmentShipped && sh.ShippedDate == nil {
		sh.ShippedDate = &now
		u.MarkRequestShipped = true
	}
	if next == ShipmentDelivered && sh.ActualDeliveryDate == nil {
		sh.ActualDeliveryDate = &now
		u.RestockQuantity = sh.RequestedQuantity
	}

	if err := s.repo.ApplyShipmentUpdate(ctx, u); err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("shipment_id", sh.ID.String()),
		zap.String("from", string(u.PreviousStatus)),
		zap.String("to", string(next)),
	}
	if u.RestockQuantity > 0 {
		fields = append(fields,
			zap.String("product_id", sh.ProductID.String()),
			zap.Int("restocked", u.RestockQuantity))
		s.log.Info("shipment delivered", fields...)
	} else {
		s.log.Info("shipment updated", fields...)
	}
	return sh, nil
}

func (s *service) GetShipment(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Shipment, error) {
	sh, err := s.repo.GetShipment(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case identity.RoleAdmin:
		return sh, nil
	case identity.RoleSupplier:
		if sh.SupplierID == actor.UserID {
			return sh, nil
		}
	case identity.RoleStoreManager:
		if actor.RequireStore(sh.StoreID) == nil {
			return sh, nil
		}
	}
	return nil, apperr.Forbidden("You do not have permission to view this shipment.")
}

// ListShipments returns suppliers their own shipments, managers those bound for
// their store, admins all.
func (s *service) ListShipments(ctx context.Context, actor identity.Actor) ([]*Shipment, error) {
	var f ShipmentFilter
	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleSupplier:
		supplierID := actor.UserID
		f.SupplierID = &supplierID
	case identity.RoleStoreManager:
		storeID, err := actor.ManagedStore()
		if err != nil {
			return nil, err
		}
		f.StoreID = &storeID
	default:
		return nil, apperr.Forbidden("You do not have permission to view shipments.")
	}
	return s.repo.ListShipments(ctx, f)
}
