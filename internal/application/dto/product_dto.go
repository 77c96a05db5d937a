package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto con su existencia inicial.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=60"`
	Name         string          `json:"name" validate:"required,min=1,max=150"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0"`
	ReorderLevel *int64          `json:"reorder_level" validate:"omitempty,min=0"`
	QtyOnHand    int64           `json:"qty_on_hand" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	ReorderLevel int64           `json:"reorder_level"`
	IsActive     bool            `json:"is_active"`
	QtyOnHand    int64           `json:"qty_on_hand"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ListProductsRequest query de GET /api/products.
type ListProductsRequest struct {
	Search string `query:"search" validate:"max=150"`
	PageRequest
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
