// Package report builds the read-only dashboards and reports for each role.
package report

import (
	"time"

	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/georgemunganga/stylane-backend/internal/modules/pos"
	"github.com/georgemunganga/stylane-backend/internal/modules/restock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	recentLimit = 10
	topLimit    = 10
	trendDays   = 7
	dayLayout   = "2006-01-02"
)

// Counts are the headline numbers of the admin dashboard.
type Counts struct {
	Stores          int `json:"total_stores"`
	Products        int `json:"total_products"`
	Users           int `json:"total_users"`
	PendingRequests int `json:"pending_requests"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DailyTotal is the sales amount for one calendar day (UTC), keyed YYYY-MM-DD.
type DailyTotal struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total"`
}

type StoreSales struct {
	StoreID          uuid.UUID       `json:"store_id"`
	StoreName        string          `json:"store_name"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
}

type StoreLowStock struct {
	StoreID       uuid.UUID `json:"store_id"`
	StoreName     string    `json:"store_name"`
	LowStockCount int       `json:"low_stock_count"`
}

// ProductSales ranks a product by revenue.
type ProductSales struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	TotalSold int             `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SupplierCounts are the headline numbers of the supplier dashboard.
type SupplierCounts struct {
	PendingRequests  int `json:"pending_requests"`
	ApprovedRequests int `json:"approved_requests"`
	Shipments        int `json:"shipments"`
}

type AdminDashboard struct {
	Counts
	LowStockProducts []*inventory.Product `json:"low_stock_products"`
	RecentSales      []*pos.Sale          `json:"recent_sales"`
	SalesByCategory  []CategoryTotal      `json:"sales_by_category"`
	SalesLast7Days   []DailyTotal         `json:"sales_last_7_days"`
}

type AdminReport struct {
	SalesByStore    []StoreSales    `json:"sales_by_store"`
	LowStockByStore []StoreLowStock `json:"low_stock_by_store"`
	TopProducts     []ProductSales  `json:"top_products"`
}

type StoreDashboard struct {
	Store            *inventory.Store     `json:"store"`
	ProductCount     int                  `json:"product_count"`
	LowStockProducts []*inventory.Product `json:"low_stock_products"`
	LowStockCount    int                  `json:"low_stock_count"`
	RecentSales      []*pos.Sale          `json:"recent_sales"`
	PendingRequests  int                  `json:"pending_requests"`
}

type StoreReport struct {
	Store             *inventory.Store     `json:"store"`
	TotalSales        decimal.Decimal      `json:"total_sales"`
	TotalTransactions int                  `json:"total_transactions"`
	LowStockProducts  []*inventory.Product `json:"low_stock_products"`
	TopProducts       []ProductSales       `json:"top_products"`
}

type SupplierDashboard struct {
	SupplierCounts
	RecentRequests []*restock.RestockRequest `json:"recent_requests"`
}

// FillDays returns one entry per day for the days ending today, oldest first.
// Days missing from totals are reported as zero.
func FillDays(totals []DailyTotal, now time.Time, days int) []DailyTotal {
	byDay := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t.Total
	}
	today := now.UTC()
	out := make([]DailyTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(dayLayout)
		out = append(out, DailyTotal{Day: day, Total: byDay[day]})
	}
	return out
}

// startOfWindow is midnight UTC of the first day in a window of days ending today.
func startOfWindow(now time.Time, days int) time.Time {
	y, m, d := now.UTC().AddDate(0, 0, -(days - 1)).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func lowStock(products []*inventory.Product) []*inventory.Product {
	out := []*inventory.Product{}
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}
