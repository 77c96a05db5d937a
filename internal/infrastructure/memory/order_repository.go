package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes, líneas y pagos en memoria.
type OrderRepo struct {
	scope
}

// NewOrderRepository repo fuera de transacción.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{scope{s: s}}
}

// Create inserta la cabecera. customer_id, si viene, debe existir.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if o.CustomerID != "" {
			if _, ok := t.customerLocked(o.CustomerID); !ok {
				return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, o.CustomerID)
			}
		}
		if _, ok := t.orderLocked(o.ID); ok {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.ID)
		}
		t.orders[o.ID] = *o
		return nil
	})
}

// CreateItem inserta una línea; orden y producto deben existir.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	return r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.orderLocked(it.OrderID); !ok {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, it.OrderID)
		}
		if _, ok := t.productLocked(it.ProductID); !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		row := *it
		row.ProductSKU, row.ProductName = "", ""
		t.items = append(t.items, row)
		return nil
	})
}

// CreatePayment inserta el pago de la orden.
func (r *OrderRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	return r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.orderLocked(p.OrderID); !ok {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, p.OrderID)
		}
		if p.Amount.IsNegative() {
			return fmt.Errorf("%w: pago inválido", domain.ErrInvalidInput)
		}
		t.payments = append(t.payments, *p)
		return nil
	})
}

// GetByID nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if o, ok := t.orderLocked(id); ok {
			out = &o
		}
		return nil
	})
	return out, err
}

// GetItemsByOrderID líneas en orden de carrito con SKU y nombre del producto.
func (r *OrderRepo) GetItemsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		rows := append([]entity.OrderItem(nil), t.s.items[orderID]...)
		for _, it := range t.items {
			if it.OrderID == orderID {
				rows = append(rows, it)
			}
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].LineNo < rows[j].LineNo })
		for i := range rows {
			it := rows[i]
			if p, ok := t.productLocked(it.ProductID); ok {
				it.ProductSKU, it.ProductName = p.SKU, p.Name
			}
			out = append(out, &it)
		}
		return nil
	})
	return out, err
}

// GetPaymentsByOrderID pagos de la orden.
func (r *OrderRepo) GetPaymentsByOrderID(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		rows := append([]entity.Payment(nil), t.s.payments[orderID]...)
		for _, p := range t.payments {
			if p.OrderID == orderID {
				rows = append(rows, p)
			}
		}
		for i := range rows {
			p := rows[i]
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}
