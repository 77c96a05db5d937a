package orders

import (
	"context"
	"time"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y de órdenes.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// InventoryUseCase interfaz para integrar ventas con inventario.
// RegisterSaleInTx descuenta stock y agrega el movimiento SALE con los repositorios del caller
// (misma transacción). Si retorna error (ej: ErrStockRace), el caller debe hacer rollback.
type InventoryUseCase interface {
	RegisterSaleInTx(
		ctx context.Context,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productID string,
		qty int64,
		orderID, userID string, // orderID queda como referencia del movimiento
		now time.Time,
	) error
}

// ReceiptData datos de una orden confirmada para su comprobante.
type ReceiptData struct {
	StoreName string
	Order     *entity.Order
	Customer  *entity.Customer // nil = venta sin cliente
	Items     []*entity.OrderItem
	Payments  []*entity.Payment
}

// ReceiptGenerator genera el comprobante imprimible de una orden.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
