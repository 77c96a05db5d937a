package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// El stock no vive aquí: se maneja en StockLevel y solo cambia vía ajustes u órdenes.
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	UnitPrice    decimal.Decimal // precio de venta
	CostPrice    decimal.Decimal
	ReorderLevel int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductWithStock producto junto a su cantidad disponible (listados).
type ProductWithStock struct {
	Product
	QtyOnHand int64
}
