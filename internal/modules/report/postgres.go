package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM stores),
		       (SELECT COUNT(*) FROM products),
		       (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM restock_requests WHERE status = 'pending')`,
	).Scan(&c.Stores, &c.Products, &c.Users, &c.PendingRequests)
	if err != nil {
		return Counts{}, apperr.Internal(err)
	}
	return c, nil
}

func (r *postgresRepo) SalesByCategory(ctx context.Context) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(p.category, ''), 'Uncategorized'), SUM(s.total_amount)
		FROM sales s JOIN products p ON p.id = s.product_id
		GROUP BY 1
		ORDER BY 2 DESC`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	out := []CategoryTotal{}
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, apperr.Internal(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *postgresRepo) DailySales(ctx context.Context, since time.Time) ([]DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(sale_date AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, SUM(total_amount)
		FROM sales
		WHERE sale_date >= $1
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	out := []DailyTotal{}
	for rows.Next() {
		var d DailyTotal
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, apperr.Internal(err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *postgresRepo) SalesByStore(ctx context.Context) ([]StoreSales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT st.id, st.name, SUM(s.total_amount), COUNT(s.id)
		FROM stores st JOIN sales s ON s.store_id = st.id
		GROUP BY st.id, st.name
		ORDER BY 3 DESC`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	out := []StoreSales{}
	for rows.Next() {
		var s StoreSales
		if err := rows.Scan(&s.StoreID, &s.StoreName, &s.TotalSales, &s.TransactionCount); err != nil {
			return nil, apperr.Internal(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *postgresRepo) LowStockByStore(ctx context.Context) ([]StoreLowStock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT st.id, st.name, COUNT(p.id)
		FROM stores st JOIN products p ON p.store_id = st.id
		WHERE p.stock_quantity <= p.low_stock_threshold
		GROUP BY st.id, st.name
		ORDER BY 3 DESC`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	out := []StoreLowStock{}
	for rows.Next() {
		var s StoreLowStock
		if err := rows.Scan(&s.StoreID, &s.StoreName, &s.LowStockCount); err != nil {
			return nil, apperr.Internal(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *postgresRepo) TopProducts(ctx context.Context, storeID *uuid.UUID, limit int) ([]ProductSales, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.sku, SUM(s.quantity), SUM(s.total_amount)
		FROM products p JOIN sales s ON s.product_id = p.id
		WHERE ($1::uuid IS NULL OR p.store_id = $1)
		GROUP BY p.id, p.name, p.sku
		ORDER BY SUM(s.total_amount) DESC
		LIMIT $2`, uuid.NullUUID{UUID: derefID(storeID), Valid: storeID != nil}, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	out := []ProductSales{}
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.SKU, &p.TotalSold, &p.Revenue); err != nil {
			return nil, apperr.Internal(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *postgresRepo) StoreSalesTotals(ctx context.Context, storeID uuid.UUID) (decimal.Decimal, int, error) {
	var (
		total decimal.Decimal
		count int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales WHERE store_id = $1`, storeID).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, apperr.Internal(err)
	}
	return total, count, nil
}

func (r *postgresRepo) CountPendingRequests(ctx context.Context, storeID *uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM restock_requests
		WHERE status = 'pending' AND ($1::uuid IS NULL OR store_id = $1)`,
		uuid.NullUUID{UUID: derefID(storeID), Valid: storeID != nil}).Scan(&n)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return n, nil
}

func (r *postgresRepo) SupplierCounts(ctx context.Context, supplierID uuid.UUID) (SupplierCounts, error) {
	var c SupplierCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM restock_requests WHERE status = 'pending'),
		       (SELECT COUNT(*) FROM restock_requests WHERE status = 'approved' AND supplier_id = $1),
		       (SELECT COUNT(*) FROM shipments WHERE supplier_id = $1)`,
		supplierID).Scan(&c.PendingRequests, &c.ApprovedRequests, &c.Shipments)
	if err != nil {
		return SupplierCounts{}, apperr.Internal(err)
	}
	return c, nil
}

func derefID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
