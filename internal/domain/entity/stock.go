package entity

import "time"

// StockLevel cantidad disponible de un producto (una fila por producto).
// Invariante: QtyOnHand >= 0.
type StockLevel struct {
	ProductID string
	QtyOnHand int64
	UpdatedAt time.Time
}
