package report

import (
	"context"
	"testing"
	"time"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/georgemunganga/stylane-backend/internal/modules/pos"
	"github.com/georgemunganga/stylane-backend/internal/modules/restock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	since       time.Time
	topStore    *uuid.UUID
	pendingFor  *uuid.UUID
	daily       []DailyTotal
	supplierFor uuid.UUID
}

func (r *stubRepo) Counts(context.Context) (Counts, error) {
	return Counts{Stores: 3, Products: 12, Users: 6, PendingRequests: 2}, nil
}

func (r *stubRepo) SalesByCategory(context.Context) ([]CategoryTotal, error) {
	return []CategoryTotal{{Category: "Jackets", Total: decimal.RequireFromString("159.98")}}, nil
}

func (r *stubRepo) DailySales(_ context.Context, since time.Time) ([]DailyTotal, error) {
	r.since = since
	return r.daily, nil
}

func (r *stubRepo) SalesByStore(context.Context) ([]StoreSales, error) {
	return []StoreSales{{StoreName: "Downtown", TotalSales: decimal.RequireFromString("100"), TransactionCount: 4}}, nil
}

func (r *stubRepo) LowStockByStore(context.Context) ([]StoreLowStock, error) {
	return []StoreLowStock{{StoreName: "Downtown", LowStockCount: 1}}, nil
}

func (r *stubRepo) TopProducts(_ context.Context, storeID *uuid.UUID, _ int) ([]ProductSales, error) {
	r.topStore = storeID
	return []ProductSales{{Name: "Denim Jacket", TotalSold: 2, Revenue: decimal.RequireFromString("159.98")}}, nil
}

func (r *stubRepo) StoreSalesTotals(context.Context, uuid.UUID) (decimal.Decimal, int, error) {
	return decimal.RequireFromString("189.97"), 3, nil
}

func (r *stubRepo) CountPendingRequests(_ context.Context, storeID *uuid.UUID) (int, error) {
	r.pendingFor = storeID
	return 1, nil
}

func (r *stubRepo) SupplierCounts(_ context.Context, supplierID uuid.UUID) (SupplierCounts, error) {
	r.supplierFor = supplierID
	return SupplierCounts{PendingRequests: 4, ApprovedRequests: 1, Shipments: 2}, nil
}

type stubSources struct {
	store          *inventory.Store
	products       []*inventory.Product
	productsFor    *uuid.UUID
	salesFor       *uuid.UUID
	salesLimit     int
	requestsFilter restock.RequestFilter
}

func (s *stubSources) GetByID(_ context.Context, id uuid.UUID) (*inventory.Store, error) {
	if s.store == nil || s.store.ID != id {
		return nil, apperr.NotFound("Store")
	}
	return s.store, nil
}

func (s *stubSources) List(_ context.Context, storeID *uuid.UUID) ([]*inventory.Product, error) {
	s.productsFor = storeID
	return s.products, nil
}

type saleSource struct{ s *stubSources }

func (ss saleSource) List(_ context.Context, storeID *uuid.UUID, limit int) ([]*pos.Sale, error) {
	ss.s.salesFor = storeID
	ss.s.salesLimit = limit
	return []*pos.Sale{{ID: uuid.New(), Quantity: 1}}, nil
}

func (s *stubSources) ListRequests(_ context.Context, f restock.RequestFilter) ([]*restock.RestockRequest, error) {
	s.requestsFilter = f
	return []*restock.RestockRequest{{ID: uuid.New(), Status: restock.RequestPending}}, nil
}

func newTestService() (*service, *stubRepo, *stubSources) {
	repo := &stubRepo{}
	store := &inventory.Store{ID: uuid.New(), Name: "Downtown"}
	src := &stubSources{
		store: store,
		products: []*inventory.Product{
			{Name: "Classic White Shirt", StockQuantity: 50, LowStockThreshold: 10},
			{Name: "Denim Jacket", StockQuantity: 8, LowStockThreshold: 10},
			{Name: "Wool Scarf", StockQuantity: 0, LowStockThreshold: 5},
		},
	}
	svc := NewService(repo, src, src, saleSource{src}, src, zap.NewNop()).(*service)
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC) }
	return svc, repo, src
}

func TestFillDays(t *testing.T) {
	now := time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC)
	days := FillDays([]DailyTotal{
		{Day: "2026-05-04", Total: decimal.NewFromInt(10)},
		{Day: "2026-05-09", Total: decimal.NewFromInt(25)},
	}, now, 7)

	require.Len(t, days, 7)
	assert.Equal(t, "2026-05-04", days[0].Day)
	assert.Equal(t, "2026-05-10", days[6].Day)
	assert.True(t, days[0].Total.Equal(decimal.NewFromInt(10)))
	assert.True(t, days[1].Total.IsZero())
	assert.True(t, days[5].Total.Equal(decimal.NewFromInt(25)))
	assert.True(t, days[6].Total.IsZero())
}

func TestAdminDashboard(t *testing.T) {
	svc, repo, src := newTestService()
	admin := identity.Actor{UserID: uuid.New(), Role: identity.RoleAdmin}

	d, err := svc.AdminDashboard(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Stores)
	assert.Equal(t, 2, d.PendingRequests)
	require.Len(t, d.LowStockProducts, 2)
	assert.Equal(t, "Denim Jacket", d.LowStockProducts[0].Name)
	assert.Len(t, d.SalesLast7Days, 7)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), repo.since)
	assert.Nil(t, src.productsFor)
	assert.Nil(t, src.salesFor)
	assert.Equal(t, 10, src.salesLimit)
}

func TestAdminViewsRequireAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	storeID := uuid.New()
	manager := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &storeID}

	_, err := svc.AdminDashboard(context.Background(), manager)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = svc.AdminReport(context.Background(), manager)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestAdminReport(t *testing.T) {
	svc, repo, _ := newTestService()

	r, err := svc.AdminReport(context.Background(), identity.Actor{Role: identity.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, r.SalesByStore, 1)
	assert.Len(t, r.LowStockByStore, 1)
	assert.Len(t, r.TopProducts, 1)
	assert.Nil(t, repo.topStore)
}

func TestStoreDashboard(t *testing.T) {
	svc, repo, src := newTestService()
	storeID := src.store.ID
	manager := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &storeID}

	d, err := svc.StoreDashboard(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, "Downtown", d.Store.Name)
	assert.Equal(t, 3, d.ProductCount)
	assert.Equal(t, 2, d.LowStockCount)
	assert.Equal(t, 1, d.PendingRequests)
	assert.Equal(t, storeID, *src.productsFor)
	assert.Equal(t, storeID, *src.salesFor)
	assert.Equal(t, storeID, *repo.pendingFor)

	_, err = svc.StoreDashboard(context.Background(), identity.Actor{Role: identity.RoleSupplier})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = svc.StoreDashboard(context.Background(), identity.Actor{Role: identity.RoleStoreManager})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err), "manager without a store")
}

func TestStoreReport(t *testing.T) {
	svc, repo, src := newTestService()
	storeID := src.store.ID
	manager := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &storeID}

	r, err := svc.StoreReport(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, "189.97", r.TotalSales.StringFixed(2))
	assert.Equal(t, 3, r.TotalTransactions)
	assert.Len(t, r.LowStockProducts, 2)
	assert.Equal(t, storeID, *repo.topStore)
}

func TestSupplierDashboard(t *testing.T) {
	svc, repo, src := newTestService()
	supplier := identity.Actor{UserID: uuid.New(), Role: identity.RoleSupplier}

	d, err := svc.SupplierDashboard(context.Background(), supplier)
	require.NoError(t, err)
	assert.Equal(t, 4, d.PendingRequests)
	assert.Equal(t, 1, d.ApprovedRequests)
	assert.Equal(t, 2, d.Shipments)
	assert.Len(t, d.RecentRequests, 1)
	assert.Equal(t, supplier.UserID, repo.supplierFor)
	assert.Equal(t, restock.RequestPending, src.requestsFilter.Status)
	assert.Equal(t, 10, src.requestsFilter.Limit)

	_, err = svc.SupplierDashboard(context.Background(), identity.Actor{Role: identity.RoleAdmin})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
