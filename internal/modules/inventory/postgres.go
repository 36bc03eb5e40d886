package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/database"
	"github.com/google/uuid"
)

// ---- Store ----

type storePostgres struct{ db *sql.DB }

func NewStorePostgresRepository(db *sql.DB) StoreRepository { return &storePostgres{db: db} }

func (r *storePostgres) Create(ctx context.Context, s *Store) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO stores (id, name, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Address, s.Phone).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (r *storePostgres) Update(ctx context.Context, s *Store) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE stores SET name=$1, address=$2, phone=$3, updated_at=NOW()
		WHERE id=$4
		RETURNING updated_at`,
		s.Name, s.Address, s.Phone, s.ID).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("Store")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (r *storePostgres) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	s, err := scanStore(r.db.QueryRowContext(ctx, `
		SELECT id, name, address, phone, created_at, updated_at
		FROM stores WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Store")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s, nil
}

func (r *storePostgres) List(ctx context.Context) ([]*Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, address, phone, created_at, updated_at
		FROM stores ORDER BY name`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	stores := []*Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return stores, nil
}

// Delete removes the store; products, sales and restock requests go with it.
func (r *storePostgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id=$1`, id)
	if err != nil {
		// Managers are pinned to their store; reassign them first.
		if database.ViolatedConstraint(err) == "users_store_id_fkey" {
			return apperr.Conflict("Store still has managers assigned.")
		}
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Store")
	}
	return nil
}

func scanStore(row database.RowScanner) (*Store, error) {
	s := &Store{}
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ---- Product ----

const productColumns = `id, store_id, name, description, category, size, color, sku, price,
	stock_quantity, low_stock_threshold, image_key, created_at, updated_at`

type productPostgres struct{ db *sql.DB }

func NewProductPostgresRepository(db *sql.DB) ProductRepository { return &productPostgres{db: db} }

func (r *productPostgres) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products
		  (id, store_id, name, description, category, size, color, sku, price,
		   stock_quantity, low_stock_threshold)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		p.ID, p.StoreID, p.Name, p.Description, p.Category, p.Size, p.Color, p.SKU, p.Price,
		p.StockQuantity, p.LowStockThreshold).Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapProductWriteError(err)
}

func (r *productPostgres) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name=$1, description=$2, category=$3, size=$4, color=$5, sku=$6, price=$7,
		    stock_quantity=$8, low_stock_threshold=$9, updated_at=NOW()
		WHERE id=$10
		RETURNING updated_at`,
		p.Name, p.Description, p.Category, p.Size, p.Color, p.SKU, p.Price,
		p.StockQuantity, p.LowStockThreshold, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("Product")
	}
	return mapProductWriteError(err)
}

func (r *productPostgres) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Product")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (r *productPostgres) List(ctx context.Context, storeID *uuid.UUID) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []interface{}
	if storeID != nil {
		query += ` WHERE store_id=$1`
		args = append(args, *storeID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (r *productPostgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

func (r *productPostgres) SetImageKey(ctx context.Context, id uuid.UUID, key *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET image_key=$1, updated_at=NOW() WHERE id=$2`, key, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Product")
	}
	return nil
}

// scanProduct reads a row selected with productColumns.
func scanProduct(row database.RowScanner) (*Product, error) {
	p := &Product{}
	var imageKey sql.NullString
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Category, &p.Size, &p.Color,
		&p.SKU, &p.Price, &p.StockQuantity, &p.LowStockThreshold, &imageKey,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageKey.Valid {
		p.ImageKey = &imageKey.String
	}
	return p, nil
}

func mapProductWriteError(err error) error {
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		return apperr.Conflict("SKU already exists.")
	}
	return apperr.Internal(err)
}
