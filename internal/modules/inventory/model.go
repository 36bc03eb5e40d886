package inventory

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is a physical retail location.
type Store struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stock status labels.
const (
	StatusOutOfStock = "Out of Stock"
	StatusLowStock   = "Low Stock"
	StatusInStock    = "In Stock"
)

// Product is a stock-keeping unit carried by one store.
type Product struct {
	ID                uuid.UUID       `json:"id"`
	StoreID           uuid.UUID       `json:"store_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category,omitempty"`
	Size              string          `json:"size,omitempty"`
	Color             string          `json:"color,omitempty"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ImageKey          *string         `json:"image_key,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsLowStock reports whether stock is at or below the reorder threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

func (p *Product) StockStatus() string {
	switch {
	case p.StockQuantity == 0:
		return StatusOutOfStock
	case p.IsLowStock():
		return StatusLowStock
	default:
		return StatusInStock
	}
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		IsLowStock  bool   `json:"is_low_stock"`
		StockStatus string `json:"stock_status"`
	}{plain(p), p.IsLowStock(), p.StockStatus()})
}

// StoreRequest is the payload for creating or editing a store.
type StoreRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=20"`
}

// ProductRequest is the payload for creating or editing a product.
// A nil LowStockThreshold means the default of 10 on create and no change on edit.
type ProductRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	Description       string          `json:"description"`
	Category          string          `json:"category" validate:"max=50"`
	Size              string          `json:"size" validate:"max=20"`
	Color             string          `json:"color" validate:"max=30"`
	SKU               string          `json:"sku" validate:"required,max=50"`
	Price             decimal.Decimal `json:"price" validate:"gte=0"`
	StockQuantity     int             `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

// DefaultLowStockThreshold applies when a product is created without one.
const DefaultLowStockThreshold = 10
