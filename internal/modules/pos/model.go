package pos

import (
	"time"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is an immutable record of units sold at the counter. UnitPrice is the
// product price at the moment of sale.
type Sale struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleDate    time.Time       `json:"sale_date"`
}

// RecordSaleRequest is the payload for recording a sale.
type RecordSaleRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

// ErrInsufficientStock is returned when a sale asks for more units than are on hand.
var ErrInsufficientStock = apperr.New(apperr.KindDomain, "insufficient_stock", "Insufficient stock.")
