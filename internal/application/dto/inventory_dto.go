package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/adjust.
// Reason por defecto ADJUSTMENT.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	DeltaQty  int64  `json:"delta_qty"`
	Reason    string `json:"reason" validate:"omitempty,oneof=ADJUSTMENT RETURN_IN RETURN_OUT"`
	Note      string `json:"note" validate:"max=255"`
}

// AdjustStockResponse resultado de un ajuste.
type AdjustStockResponse struct {
	OK        bool   `json:"ok"`
	ProductID string `json:"product_id"`
	QtyOnHand int64  `json:"qty_on_hand"`
}

// ListMovementsRequest query de GET /api/inventory/movements.
type ListMovementsRequest struct {
	ProductID string `query:"product_id" validate:"required,uuid"`
	PageRequest
}

// MovementResponse un asiento del ledger de inventario.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	DeltaQty  int64     `json:"delta_qty"`
	Reason    string    `json:"reason"`
	RefType   string    `json:"ref_type"`
	RefID     string    `json:"ref_id"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementListResponse movimientos de un producto con su existencia actual.
// LedgerSum suma de todos los deltas; qty_on_hand - ledger_sum = existencia inicial.
type MovementListResponse struct {
	ProductID string             `json:"product_id"`
	QtyOnHand int64              `json:"qty_on_hand"`
	LedgerSum int64              `json:"ledger_sum"`
	Items     []MovementResponse `json:"items"`
	Page      PageResponse       `json:"page"`
}

// LowStockRequest query de GET /api/inventory/low-stock.
type LowStockRequest struct {
	PageRequest
}

// LowStockItem producto en o bajo su nivel de reorden.
// Shortfall = reorder_level - qty_on_hand (0 si está justo en el nivel).
type LowStockItem struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	QtyOnHand    int64  `json:"qty_on_hand"`
	ReorderLevel int64  `json:"reorder_level"`
	Shortfall    int64  `json:"shortfall"`
}

// LowStockResponse reporte de existencias bajas.
type LowStockResponse struct {
	Items []LowStockItem `json:"items"`
	Page  PageResponse   `json:"page"`
}
