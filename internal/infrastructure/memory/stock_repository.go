package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock en memoria. Decrement y GetForUpdate toman el bloqueo de fila.
type StockRepo struct {
	scope
}

// NewStockRepository repo fuera de transacción (cada operación es autocommit).
func NewStockRepository(s *Store) *StockRepo {
	return &StockRepo{scope{s: s}}
}

// Get stock actual; sin fila = 0.
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.StockLevel, error) {
	var out entity.StockLevel
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		st, ok := t.stockLocked(productID)
		if !ok {
			st = entity.StockLevel{ProductID: productID}
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate asegura la fila (en 0) y la bloquea hasta el fin de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockLevel, error) {
	var out entity.StockLevel
	err := r.do(func(t *tx) error {
		if err := t.lock(ctx, productID); err != nil {
			return err
		}
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.productLocked(productID); !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		st, ok := t.stockLocked(productID)
		if !ok {
			st = entity.StockLevel{ProductID: productID, UpdatedAt: time.Now()}
			t.stock[productID] = st
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upsert escribe la cantidad; negativa es ErrInvariantViolation (equivale al CHECK de la tabla).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockLevel) error {
	if stock.QtyOnHand < 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrInvariantViolation, stock.ProductID)
	}
	return r.do(func(t *tx) error {
		if err := t.lock(ctx, stock.ProductID); err != nil {
			return err
		}
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.productLocked(stock.ProductID); !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, stock.ProductID)
		}
		st := *stock
		if st.UpdatedAt.IsZero() {
			st.UpdatedAt = time.Now()
		}
		t.stock[stock.ProductID] = st
		return nil
	})
}

// Decrement resta qty si alcanza. Sin fila o sin existencia suficiente devuelve ok=false.
func (r *StockRepo) Decrement(ctx context.Context, productID string, qty int64) (int64, bool, error) {
	var newQty int64
	var ok bool
	err := r.do(func(t *tx) error {
		if err := t.lock(ctx, productID); err != nil {
			return err
		}
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		st, found := t.stockLocked(productID)
		if !found || st.QtyOnHand < qty {
			return nil
		}
		st.QtyOnHand -= qty
		st.UpdatedAt = time.Now()
		t.stock[productID] = st
		newQty, ok = st.QtyOnHand, true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return newQty, ok, nil
}
