package pos

import (
	"context"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the sale recorder.
type Service interface {
	RecordSale(ctx context.Context, actor identity.Actor, req RecordSaleRequest) (*Sale, error)
	GetSale(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context, actor identity.Actor, storeID *uuid.UUID) ([]*Sale, error)
}

// ProductReader looks up the product being sold.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*inventory.Product, error)
}

type service struct {
	repo     Repository
	products ProductReader
	log      *zap.Logger
}

func NewService(repo Repository, products ProductReader, log *zap.Logger) Service {
	return &service{repo: repo, products: products, log: log}
}

func (s *service) RecordSale(ctx context.Context, actor identity.Actor, req RecordSaleRequest) (*Sale, error) {
	storeID, err := actor.ManagedStore()
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, apperr.Validation("Quantity must be greater than zero.")
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
	if req.Quantity > product.StockQuantity {
		return nil, ErrInsufficientStock.WithMessage("Insufficient stock. Available: %d", product.StockQuantity)
	}

	sale := &Sale{
		ID:          uuid.New(),
		ProductID:   product.ID,
		StoreID:     storeID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		UnitPrice:   product.Price,
		TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.log.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.TotalAmount.StringFixed(2)))
	return sale, nil
}

func (s *service) GetSale(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Sale, error) {
	if err := actor.Require(identity.RoleAdmin, identity.RoleStoreManager); err != nil {
		return nil, err
	}
	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.RequireStore(sale.StoreID); err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales returns sales newest first. Managers only see their own store.
func (s *service) ListSales(ctx context.Context, actor identity.Actor, storeID *uuid.UUID) ([]*Sale, error) {
	if err := actor.Require(identity.RoleAdmin, identity.RoleStoreManager); err != nil {
		return nil, err
	}
	if actor.Role == identity.RoleStoreManager {
		managed, err := actor.ManagedStore()
		if err != nil {
			return nil, err
		}
		storeID = &managed
	}
	return s.repo.List(ctx, storeID, 0)
}
