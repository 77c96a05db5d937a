package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ orders.OrderTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks en una transacción del Store: Commit si fn no falla, Rollback si no.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run transacción con repos de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(sc scope) error {
		return fn(&InventoryMovementRepo{sc}, &StockRepo{sc}, &ProductRepo{sc})
	})
}

// RunOrder transacción con repos de inventario y de órdenes.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return r.inTx(ctx, func(sc scope) error {
		return fn(&InventoryMovementRepo{sc}, &StockRepo{sc}, &ProductRepo{sc}, &CustomerRepo{sc}, &OrderRepo{sc})
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(sc scope) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrInfrastructure, err)
	}
	t := r.s.begin()
	defer t.rollback()

	if err := fn(scope{s: r.s, t: t}); err != nil {
		return err
	}
	return t.commit()
}
