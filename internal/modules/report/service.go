package report

import (
	"context"
	"time"

	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/georgemunganga/stylane-backend/internal/modules/pos"
	"github.com/georgemunganga/stylane-backend/internal/modules/restock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service builds the per-role dashboards and reports. Nothing here writes.
type Service interface {
	AdminDashboard(ctx context.Context, actor identity.Actor) (*AdminDashboard, error)
	AdminReport(ctx context.Context, actor identity.Actor) (*AdminReport, error)
	StoreDashboard(ctx context.Context, actor identity.Actor) (*StoreDashboard, error)
	StoreReport(ctx context.Context, actor identity.Actor) (*StoreReport, error)
	SupplierDashboard(ctx context.Context, actor identity.Actor) (*SupplierDashboard, error)
}

type StoreReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*inventory.Store, error)
}

type ProductLister interface {
	List(ctx context.Context, storeID *uuid.UUID) ([]*inventory.Product, error)
}

type SaleLister interface {
	List(ctx context.Context, storeID *uuid.UUID, limit int) ([]*pos.Sale, error)
}

type RequestLister interface {
	ListRequests(ctx context.Context, f restock.RequestFilter) ([]*restock.RestockRequest, error)
}

type service struct {
	repo     Repository
	stores   StoreReader
	products ProductLister
	sales    SaleLister
	requests RequestLister
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, stores StoreReader, products ProductLister, sales SaleLister, requests RequestLister, log *zap.Logger) Service {
	return &service{
		repo:     repo,
		stores:   stores,
		products: products,
		sales:    sales,
		requests: requests,
		log:      log,
		now:      time.Now,
	}
}

func (s *service) AdminDashboard(ctx context.Context, actor identity.Actor) (*AdminDashboard, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.sales.List(ctx, nil, recentLimit)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.SalesByCategory(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	daily, err := s.repo.DailySales(ctx, startOfWindow(now, trendDays))
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Counts:           counts,
		LowStockProducts: lowStock(products),
		RecentSales:      recent,
		SalesByCategory:  byCategory,
		SalesLast7Days:   FillDays(daily, now, trendDays),
	}, nil
}

func (s *service) AdminReport(ctx context.Context, actor identity.Actor) (*AdminReport, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	byStore, err := s.repo.SalesByStore(ctx)
	if err != nil {
		return nil, err
	}
	lowByStore, err := s.repo.LowStockByStore(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, nil, topLimit)
	if err != nil {
		return nil, err
	}
	return &AdminReport{SalesByStore: byStore, LowStockByStore: lowByStore, TopProducts: top}, nil
}

func (s *service) StoreDashboard(ctx context.Context, actor identity.Actor) (*StoreDashboard, error) {
	storeID, err := actor.ManagedStore()
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, &storeID)
	if err != nil {
		return nil, err
	}
	recent, err := s.sales.List(ctx, &storeID, recentLimit)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPendingRequests(ctx, &storeID)
	if err != nil {
		return nil, err
	}

	low := lowStock(products)
	return &StoreDashboard{
		Store:            store,
		ProductCount:     len(products),
		LowStockProducts: low,
		LowStockCount:    len(low),
		RecentSales:      recent,
		PendingRequests:  pending,
	}, nil
}

func (s *service) StoreReport(ctx context.Context, actor identity.Actor) (*StoreReport, error) {
	storeID, err := actor.ManagedStore()
	if err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	total, count, err := s.repo.StoreSalesTotals(ctx, storeID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx, &storeID)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, &storeID, topLimit)
	if err != nil {
		return nil, err
	}
	return &StoreReport{
		Store:             store,
		TotalSales:        total,
		TotalTransactions: count,
		LowStockProducts:  lowStock(products),
		TopProducts:       top,
	}, nil
}

func (s *service) SupplierDashboard(ctx context.Context, actor identity.Actor) (*SupplierDashboard, error) {
	if err := actor.Require(identity.RoleSupplier); err != nil {
		return nil, err
	}
	counts, err := s.repo.SupplierCounts(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	recent, err := s.requests.ListRequests(ctx, restock.RequestFilter{
		Status: restock.RequestPending,
		Limit:  recentLimit,
	})
	if err != nil {
		return nil, err
	}
	return &SupplierDashboard{SupplierCounts: counts, RecentRequests: recent}, nil
}
