package restock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/database"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ---- requests ----

const requestSelect = `
	SELECT r.id, r.store_id, r.product_id, r.requested_quantity, r.status, r.supplier_id,
	       r.requested_by, r.notes, r.created_at, r.updated_at, p.name, st.name
	FROM restock_requests r
	JOIN products p ON p.id = r.product_id
	JOIN stores st ON st.id = r.store_id`

func (r *postgresRepo) CreateRequest(ctx context.Context, req *RestockRequest) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO restock_requests (id, store_id, product_id, requested_quantity, status, requested_by, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		req.ID, req.StoreID, req.ProductID, req.RequestedQuantity, req.Status, req.RequestedBy, req.Notes,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (r *postgresRepo) GetRequest(ctx context.Context, id uuid.UUID) (*RestockRequest, error) {
	req, err := scanRequest(r.db.QueryRowContext(ctx, requestSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Restock request")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return req, nil
}

func (r *postgresRepo) ListRequests(ctx context.Context, f RequestFilter) ([]*RestockRequest, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.StoreID != nil {
		where = append(where, "r.store_id = "+arg(*f.StoreID))
	}
	if f.Status != "" {
		where = append(where, "r.status = "+arg(f.Status))
	}
	if f.VisibleToSupplier != nil {
		where = append(where, fmt.Sprintf("(r.status = %s OR r.supplier_id = %s)",
			arg(RequestPending), arg(*f.VisibleToSupplier)))
	}

	query := requestSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	requests := []*RestockRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return requests, nil
}

// Approve guards on the pending status and on the one-shipment-per-request
// unique key, so a second approval fails even when two race.
func (r *postgresRepo) Approve(ctx context.Context, req *RestockRequest, s *Shipment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE restock_requests SET status = $1, supplier_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING updated_at`,
		RequestApproved, req.SupplierID, req.ID, RequestPending).Scan(&req.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyProcessed
	}
	if err != nil {
		return apperr.Internal(fmt.Errorf("approve request: %w", err))
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO shipments (id, restock_request_id, supplier_id, status, tracking_number, expected_delivery_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		s.ID, s.RestockRequestID, s.SupplierID, s.Status, s.TrackingNumber, s.ExpectedDeliveryDate, s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrAlreadyProcessed
		}
		return apperr.Internal(fmt.Errorf("insert shipment: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (r *postgresRepo) Reject(ctx context.Context, req *RestockRequest) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE restock_requests SET status = $1, supplier_id = $2, notes = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
		RETURNING updated_at`,
		RequestRejected, req.SupplierID, req.Notes, req.ID, RequestPending).Scan(&req.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAlreadyProcessed
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func scanRequest(row database.RowScanner) (*RestockRequest, error) {
	req := &RestockRequest{}
	var supplierID uuid.NullUUID
	err := row.Scan(&req.ID, &req.StoreID, &req.ProductID, &req.RequestedQuantity, &req.Status, &supplierID,
		&req.RequestedBy, &req.Notes, &req.CreatedAt, &req.UpdatedAt, &req.ProductName, &req.StoreName)
	if err != nil {
		return nil, err
	}
	if supplierID.Valid {
		id := supplierID.UUID
		req.SupplierID = &id
	}
	return req, nil
}

// ---- shipments ----

const shipmentSelect = `
	SELECT s.id, s.restock_request_id, s.supplier_id, s.status, s.tracking_number,
	       s.shipped_date, s.expected_delivery_date, s.actual_delivery_date, s.notes,
	       s.created_at, s.updated_at,
	       r.store_id, r.product_id, r.requested_quantity, p.name, st.name
	FROM shipments s
	JOIN restock_requests r ON r.id = s.restock_request_id
	JOIN products p ON p.id = r.product_id
	JOIN stores st ON st.id = r.store_id`

func (r *postgresRepo) GetShipment(ctx context.Context, id uuid.UUID) (*Shipment, error) {
	s, err := scanShipment(r.db.QueryRowContext(ctx, shipmentSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Shipment")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s, nil
}

func (r *postgresRepo) ListShipments(ctx context.Context, f ShipmentFilter) ([]*Shipment, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.SupplierID != nil {
		args = append(args, *f.SupplierID)
		where = append(where, fmt.Sprintf("s.supplier_id = $%d", len(args)))
	}
	if f.StoreID != nil {
		args = append(args, *f.StoreID)
		where = append(where, fmt.Sprintf("r.store_id = $%d", len(args)))
	}
	query := shipmentSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	shipments := []*Shipment{}
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return shipments, nil
}

// ApplyShipmentUpdate writes the shipment, and when asked the request status
// and the product stock, as one unit. The previous-status guard turns a
// concurrent update into ErrConcurrentUpdate instead of a second restock.
func (r *postgresRepo) ApplyShipmentUpdate(ctx context.Context, u ShipmentUpdate) error {
	s := u.Shipment
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE shipments
		SET status = $1, tracking_number = $2, notes = $3,
		    shipped_date = $4, actual_delivery_date = $5, updated_at = NOW()
		WHERE id = $6 AND status = $7
		RETURNING updated_at`,
		s.Status, s.TrackingNumber, s.Notes, s.ShippedDate, s.ActualDeliveryDate, s.ID, u.PreviousStatus,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrConcurrentUpdate
	}
	if err != nil {
		return apperr.Internal(fmt.Errorf("update shipment: %w", err))
	}

	if u.MarkRequestShipped {
		_, err = tx.ExecContext(ctx, `
			UPDATE restock_requests SET status = $1, updated_at = NOW()
			WHERE id = $2`, RequestShipped, s.RestockRequestID)
		if err != nil {
			return apperr.Internal(fmt.Errorf("mark request shipped: %w", err))
		}
	}

	if u.RestockQuantity > 0 {
		res, err := tx.ExecContext(ctx, `
			UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW()
			WHERE id = $2`, u.RestockQuantity, s.ProductID)
		if err != nil {
			return apperr.Internal(fmt.Errorf("restock product: %w", err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.NotFound("Product")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func scanShipment(row database.RowScanner) (*Shipment, error) {
	s := &Shipment{}
	var shipped, expected, delivered sql.NullTime
	err := row.Scan(&s.ID, &s.RestockRequestID, &s.SupplierID, &s.Status, &s.TrackingNumber,
		&shipped, &expected, &delivered, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
		&s.StoreID, &s.ProductID, &s.RequestedQuantity, &s.ProductName, &s.StoreName)
	if err != nil {
		return nil, err
	}
	if shipped.Valid {
		s.ShippedDate = &shipped.Time
	}
	if expected.Valid {
		s.ExpectedDeliveryDate = &expected.Time
	}
	if delivered.Valid {
		s.ActualDeliveryDate = &delivered.Time
	}
	return s, nil
}
