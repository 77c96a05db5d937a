package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, delta_qty, reason, ref_type, ref_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.DeltaQty, movement.Reason,
		movement.RefType, movement.RefID, nullIfEmpty(movement.Note), nullIfEmpty(movement.CreatedBy),
		movement.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, movement.ProductID)
		}
		return infraErr("create inventory movement", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, product_id, delta_qty, reason, ref_type, ref_id, note, created_by, created_at
		FROM inventory_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, infraErr("list inventory movements", err)
	}
	defer rows.Close()

	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var note, createdBy *string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.DeltaQty, &m.Reason, &m.RefType, &m.RefID,
			&note, &createdBy, &m.CreatedAt,
		); err != nil {
			return nil, infraErr("scan inventory movement", err)
		}
		m.Note = derefString(note)
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr("list inventory movements", err)
	}
	return list, nil
}

// SumByProduct suma de deltas del ledger de un producto.
func (r *InventoryMovementRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta_qty), 0)::bigint FROM inventory_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return 0, infraErr("sum inventory movements", err)
	}
	return sum, nil
}
