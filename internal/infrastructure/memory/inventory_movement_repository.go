package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo ledger en memoria (solo inserción).
type InventoryMovementRepo struct {
	scope
}

// NewInventoryMovementRepository repo fuera de transacción.
func NewInventoryMovementRepository(s *Store) *InventoryMovementRepo {
	return &InventoryMovementRepo{scope{s: s}}
}

// Create agrega un movimiento.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	return r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.productLocked(movement.ProductID); !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, movement.ProductID)
		}
		t.movements = append(t.movements, *movement)
		return nil
	})
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	err := r.do(func(t *tx) error {
		all := t.movementsFor(productID)
		if offset >= len(all) {
			return nil
		}
		end := len(all)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}
		list = all[offset:end]
		return nil
	})
	return list, err
}

// SumByProduct suma de deltas del producto.
func (r *InventoryMovementRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.do(func(t *tx) error {
		for _, m := range t.movementsFor(productID) {
			sum += m.DeltaQty
		}
		return nil
	})
	return sum, err
}

// movementsFor confirmados + pendientes de la tx, del más nuevo al más viejo.
func (t *tx) movementsFor(productID string) []*entity.InventoryMovement {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	rows := make([]movementRow, 0)
	for _, row := range t.s.movements {
		if row.m.ProductID == productID {
			rows = append(rows, row)
		}
	}
	next := t.s.seq
	for _, m := range t.movements {
		next++
		if m.ProductID == productID {
			rows = append(rows, movementRow{seq: next, m: m})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]*entity.InventoryMovement, len(rows))
	for i := range rows {
		m := rows[i].m
		out[i] = &m
	}
	return out
}
