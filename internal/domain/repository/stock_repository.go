package repository

import (
	"context"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el stock de un producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve el stock actual; si no existe fila devuelve cantidad 0.
	Get(ctx context.Context, productID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	// Si la fila no existe la crea en 0 antes de bloquearla.
	GetForUpdate(ctx context.Context, productID string) (*entity.StockLevel, error)
	// Upsert escribe la cantidad. Una cantidad negativa es ErrInvariantViolation.
	Upsert(ctx context.Context, stock *entity.StockLevel) error
	// Decrement resta qty solo si hay existencia suficiente (operación atómica).
	// ok=false indica que el stock no alcanzó en el momento de escribir.
	Decrement(ctx context.Context, productID string, qty int64) (newQty int64, ok bool, err error)
}
