package pos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// Create applies a relative decrement so concurrent sales never overwrite each
// other's stock writes; the products_stock_non_negative check rejects a sale
// that lost the race.
func (r *postgresRepo) Create(ctx context.Context, s *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2`, s.Quantity, s.ProductID)
	if err != nil {
		if database.ViolatedConstraint(err) == "products_stock_non_negative" {
			return ErrInsufficientStock
		}
		return apperr.Internal(fmt.Errorf("decrement stock: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Product")
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO sales (id, product_id, store_id, quantity, unit_price, total_amount)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING sale_date`,
		s.ID, s.ProductID, s.StoreID, s.Quantity, s.UnitPrice, s.TotalAmount).Scan(&s.SaleDate)
	if err != nil {
		return apperr.Internal(fmt.Errorf("insert sale: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

const saleSelect = `
	SELECT s.id, s.product_id, s.store_id, p.name, s.quantity, s.unit_price, s.total_amount, s.sale_date
	FROM sales s JOIN products p ON p.id = s.product_id`

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Sale, error) {
	s, err := scanSale(r.db.QueryRowContext(ctx, saleSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Sale")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s, nil
}

func (r *postgresRepo) List(ctx context.Context, storeID *uuid.UUID, limit int) ([]*Sale, error) {
	query := saleSelect
	var args []interface{}
	if storeID != nil {
		args = append(args, *storeID)
		query += fmt.Sprintf(` WHERE s.store_id = $%d`, len(args))
	}
	query += ` ORDER BY s.sale_date DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	sales := []*Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return sales, nil
}

func scanSale(row database.RowScanner) (*Sale, error) {
	s := &Sale{}
	err := row.Scan(&s.ID, &s.ProductID, &s.StoreID, &s.ProductName,
		&s.Quantity, &s.UnitPrice, &s.TotalAmount, &s.SaleDate)
	if err != nil {
		return nil, err
	}
	return s, nil
}
