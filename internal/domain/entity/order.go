package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPaid único estado de una orden: se crea pagada y no tiene ciclo de vida posterior.
const OrderStatusPaid = "PAID"

// Order cabecera de una venta. Los totales se derivan al crear y no se editan después.
type Order struct {
	ID         string
	CustomerID string // vacío = venta sin cliente
	UserID     string // usuario que emitió la venta
	Status     string
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// OrderItem línea de una orden. LineTotal = round2(UnitPrice * Qty).
// ProductSKU y ProductName solo se llenan en lecturas (join con products).
type OrderItem struct {
	ID          string
	OrderID     string
	LineNo      int // posición en el carrito, desde 1
	ProductID   string
	Qty         int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	ProductSKU  string
	ProductName string
}
