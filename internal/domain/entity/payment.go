package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentMethodCash  = "CASH"
	PaymentMethodCard  = "CARD"
	PaymentMethodOther = "OTHER"
)

// Payment monto registrado para una orden (uno por orden; sin pasarela).
type Payment struct {
	ID        string
	OrderID   string
	Method    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}
