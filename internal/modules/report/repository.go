package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository runs the aggregate queries behind the dashboards.
// A nil storeID means all stores.
type Repository interface {
	Counts(ctx context.Context) (Counts, error)
	SalesByCategory(ctx context.Context) ([]CategoryTotal, error)
	DailySales(ctx context.Context, since time.Time) ([]DailyTotal, error)
	SalesByStore(ctx context.Context) ([]StoreSales, error)
	LowStockByStore(ctx context.Context) ([]StoreLowStock, error)
	TopProducts(ctx context.Context, storeID *uuid.UUID, limit int) ([]ProductSales, error)
	StoreSalesTotals(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, int, error)
	CountPendingRequests(ctx context.Context, storeID *uuid.UUID) (int, error)
	SupplierCounts(ctx context.Context, supplierID uuid.UUID) (SupplierCounts, error)
}
