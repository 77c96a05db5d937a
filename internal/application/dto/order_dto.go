package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea del carrito. El precio unitario lo fija el cliente (POS).
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       int64           `json:"qty" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// PaymentRequest pago único de la orden.
type PaymentRequest struct {
	Method string          `json:"method" validate:"required,oneof=CASH CARD OTHER"`
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TaxRate    decimal.Decimal    `json:"tax_rate" validate:"gte=0,lte=1"`
	Discount   decimal.Decimal    `json:"discount" validate:"gte=0"`
	Payment    PaymentRequest     `json:"payment" validate:"required"`
}

// CreateOrderResponse totales de la orden creada.
type CreateOrderResponse struct {
	OrderID  string          `json:"order_id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// OrderResponse cabecera de la orden.
type OrderResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id,omitempty"`
	UserID     string          `json:"user_id"`
	Status     string          `json:"status"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderItemResponse línea de la orden con datos del producto.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Qty       int64           `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderDetailResponse salida de GET /api/orders/:id.
type OrderDetailResponse struct {
	Order    OrderResponse       `json:"order"`
	Items    []OrderItemResponse `json:"items"`
	Payments []PaymentResponse   `json:"payments"`
}
