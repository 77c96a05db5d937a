package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo persiste órdenes, líneas y pagos sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, user_id, status, subtotal, tax, discount, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		o.ID, nullIfEmpty(o.CustomerID), o.UserID, o.Status,
		o.Subtotal, o.Tax, o.Discount, o.Total, o.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, o.CustomerID)
		}
		return infraErr("insert order", err)
	}
	return nil
}

// CreateItem inserta una línea de la orden.
func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, line_no, product_id, qty, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.LineNo, it.ProductID, it.Qty, it.UnitPrice, it.LineTotal,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		return infraErr("insert order item", err)
	}
	return nil
}

// CreatePayment inserta el pago de la orden.
func (r *OrderRepo) CreatePayment(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, method, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, p.ID, p.OrderID, p.Method, p.Amount, p.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: pago inválido", domain.ErrInvalidInput)
		}
		return infraErr("insert payment", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una orden. nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, customer_id, user_id, status, subtotal, tax, discount, total, created_at
		FROM orders WHERE id = $1`
	var o entity.Order
	var customerID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &customerID, &o.UserID, &o.Status,
		&o.Subtotal, &o.Tax, &o.Discount, &o.Total, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, infraErr("get order", err)
	}
	o.CustomerID = derefString(customerID)
	return &o, nil
}

// GetItemsByOrderID líneas de la orden en el orden del carrito, con SKU y nombre del producto.
func (r *OrderRepo) GetItemsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.line_no, oi.product_id, oi.qty, oi.unit_price, oi.line_total,
		       p.sku, p.name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.line_no`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, infraErr("list order items", err)
	}
	defer rows.Close()

	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNo, &it.ProductID, &it.Qty, &it.UnitPrice, &it.LineTotal,
			&it.ProductSKU, &it.ProductName,
		); err != nil {
			return nil, infraErr("scan order item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr("list order items", err)
	}
	return items, nil
}

// GetPaymentsByOrderID pagos de la orden.
func (r *OrderRepo) GetPaymentsByOrderID(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, order_id, method, amount, created_at
		FROM payments WHERE order_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, infraErr("list payments", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Method, &p.Amount, &p.CreatedAt); err != nil {
			return nil, infraErr("scan payment", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr("list payments", err)
	}
	return payments, nil
}
