package entity

import "time"

// Motivos de movimiento de inventario.
const (
	MovementReasonAdjustment = "ADJUSTMENT"
	MovementReasonReturnIn   = "RETURN_IN"
	MovementReasonReturnOut  = "RETURN_OUT"
	MovementReasonSale       = "SALE"
)

// Tipos de referencia: qué operación causó el movimiento.
const (
	MovementRefAdjustment = "ADJUSTMENT"
	MovementRefOrder      = "ORDER"
)

// InventoryMovement hecho inmutable: un cambio de cantidad y su causa.
// Solo se inserta; nunca se actualiza ni se borra.
type InventoryMovement struct {
	ID        string
	ProductID string
	DeltaQty  int64 // positivo entrada, negativo salida
	Reason    string
	RefType   string
	RefID     string
	Note      string
	CreatedBy string
	CreatedAt time.Time
}

// IsAdjustmentReason indica si el motivo puede usarse en un ajuste manual (SALE solo lo genera una orden).
func IsAdjustmentReason(reason string) bool {
	switch reason {
	case MovementReasonAdjustment, MovementReasonReturnIn, MovementReasonReturnOut:
		return true
	}
	return false
}
