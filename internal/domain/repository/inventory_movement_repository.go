package repository

import (
	"context"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto del ledger de movimientos. Solo inserción.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByProduct devuelve los movimientos más recientes primero.
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error)
	// SumByProduct suma de deltas del ledger; debe coincidir con el stock actual.
	SumByProduct(ctx context.Context, productID string) (int64, error)
}
