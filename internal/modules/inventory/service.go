package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/notify"
	"github.com/georgemunganga/stylane-backend/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines store and product catalog logic.
type Service interface {
	// Store operations (admin)
	CreateStore(ctx context.Context, actor identity.Actor, req StoreRequest) (*Store, error)
	UpdateStore(ctx context.Context, actor identity.Actor, id uuid.UUID, req StoreRequest) (*Store, error)
	GetStore(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Store, error)
	ListStores(ctx context.Context, actor identity.Actor) ([]*Store, error)
	DeleteStore(ctx context.Context, actor identity.Actor, id uuid.UUID) error

	// Product operations
	CreateProduct(ctx context.Context, actor identity.Actor, req ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, actor identity.Actor, id uuid.UUID, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, actor identity.Actor, id uuid.UUID) error
	GetProduct(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, actor identity.Actor, storeID *uuid.UUID) ([]*Product, error)
	AttachImage(ctx context.Context, actor identity.Actor, id uuid.UUID, filename string, r io.Reader) (*Product, error)
}

type service struct {
	storeRepo   StoreRepository
	productRepo ProductRepository
	images      storage.ImageStore
	notifier    notify.Notifier
	log         *zap.Logger
	now         func() time.Time
}

// NewService creates a new inventory service.
func NewService(storeRepo StoreRepository, productRepo ProductRepository, images storage.ImageStore, notifier notify.Notifier, log *zap.Logger) Service {
	return &service{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		images:      images,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

func (s *service) CreateStore(ctx context.Context, actor identity.Actor, req StoreRequest) (*Store, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	store := &Store{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
		Phone:   strings.TrimSpace(req.Phone),
	}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	s.log.Info("store created", zap.String("store_id", store.ID.String()), zap.String("name", store.Name))
	return store, nil
}

func (s *service) UpdateStore(ctx context.Context, actor identity.Actor, id uuid.UUID, req StoreRequest) (*Store, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Name = strings.TrimSpace(req.Name)
	store.Address = strings.TrimSpace(req.Address)
	store.Phone = strings.TrimSpace(req.Phone)
	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *service) GetStore(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Store, error) {
	if err := actor.RequireStore(id); err != nil {
		return nil, err
	}
	return s.storeRepo.GetByID(ctx, id)
}

func (s *service) ListStores(ctx context.Context, actor identity.Actor) ([]*Store, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	return s.storeRepo.List(ctx)
}

func (s *service) DeleteStore(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return err
	}
	if err := s.storeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("store deleted", zap.String("store_id", id.String()))
	return nil
}

func (s *service) CreateProduct(ctx context.Context, actor identity.Actor, req ProductRequest) (*Product, error) {
	storeID, err := actor.ManagedStore()
	if err != nil {
		return nil, err
	}
	if req.Price.IsNegative() || req.StockQuantity < 0 {
		return nil, apperr.Validation("Price and stock quantity cannot be negative.")
	}
	threshold := DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}

	p := &Product{ID: uuid.New(), StoreID: storeID}
	applyProductRequest(p, req)
	p.LowStockThreshold = threshold
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("store_id", storeID.String()),
		zap.String("sku", p.SKU))
	s.notifier.Notify(ctx, "New Product", fmt.Sprintf("Product %s added.", p.Name))
	return s.withImageURL(p), nil
}

func (s *service) UpdateProduct(ctx context.Context, actor identity.Actor, id uuid.UUID, req ProductRequest) (*Product, error) {
	p, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Price.IsNegative() || req.StockQuantity < 0 {
		return nil, apperr.Validation("Price and stock quantity cannot be negative.")
	}
	applyProductRequest(p, req)
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.withImageURL(p), nil
}

func (s *service) DeleteProduct(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	p, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ImageKey != nil {
		s.deleteImage(ctx, *p.ImageKey)
	}
	s.log.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *service) GetProduct(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Product, error) {
	if err := actor.Require(identity.RoleAdmin, identity.RoleStoreManager); err != nil {
		return nil, err
	}
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireStore(p.StoreID); err != nil {
		return nil, err
	}
	return s.withImageURL(p), nil
}

// ListProducts pins managers to their own store; admins may filter by storeID.
func (s *service) ListProducts(ctx context.Context, actor identity.Actor, storeID *uuid.UUID) ([]*Product, error) {
	if err := actor.Require(identity.RoleAdmin, identity.RoleStoreManager); err != nil {
		return nil, err
	}
	if scope := actor.ScopeStore(); scope != nil {
		storeID = scope
	} else if actor.Role == identity.RoleStoreManager {
		return nil, apperr.Forbidden("Your account is not assigned to a store.")
	}
	products, err := s.productRepo.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		s.withImageURL(p)
	}
	return products, nil
}

func (s *service) AttachImage(ctx context.Context, actor identity.Actor, id uuid.UUID, filename string, r io.Reader) (*Product, error) {
	p, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	contentType, ok := storage.ContentType(filename)
	if !ok {
		return nil, apperr.Validation("Invalid file type. Allowed types: png, jpg, jpeg, gif.")
	}

	key := storage.ProductImageKey(filename, s.now())
	if err := s.images.Put(ctx, key, contentType, r); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.productRepo.SetImageKey(ctx, p.ID, &key); err != nil {
		s.deleteImage(ctx, key)
		return nil, err
	}

	if p.ImageKey != nil && *p.ImageKey != key {
		s.deleteImage(ctx, *p.ImageKey)
	}
	p.ImageKey = &key
	s.log.Info("product image attached", zap.String("product_id", p.ID.String()), zap.String("key", key))
	return s.withImageURL(p), nil
}

// ownedProduct loads a product the actor manages.
func (s *service) ownedProduct(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Product, error) {
	storeID, err := actor.ManagedStore()
	if err != nil {
		return nil, err
	}
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, apperr.Forbidden("You do not have permission to modify this product.")
	}
	return p, nil
}

func (s *service) withImageURL(p *Product) *Product {
	if p.ImageKey != nil {
		p.ImageURL = s.images.URL(*p.ImageKey)
	}
	return p
}

func (s *service) deleteImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete product image", zap.String("key", key), zap.Error(err))
	}
}

func applyProductRequest(p *Product, req ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = strings.TrimSpace(req.Category)
	p.Size = strings.TrimSpace(req.Size)
	p.Color = strings.TrimSpace(req.Color)
	p.SKU = strings.TrimSpace(req.SKU)
	p.Price = req.Price
	p.StockQuantity = req.StockQuantity
}
