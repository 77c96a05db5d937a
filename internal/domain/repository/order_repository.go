package repository

import (
	"context"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

// OrderRepository persiste cabecera, líneas y pagos de una orden.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetItemsByOrderID incluye SKU y nombre del producto.
	GetItemsByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	GetPaymentsByOrderID(ctx context.Context, orderID string) ([]*entity.Payment, error)
}
