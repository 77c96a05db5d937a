package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
	"github.com/jhoicas/retailflow-api/internal/domain/sales"
)

// CreateOrderUseCase crea una orden pagada y descuenta el inventario en una sola transacción.
type CreateOrderUseCase struct {
	txRunner    OrderTxRunner
	inventoryUC InventoryUseCase
	orderRepo   repository.OrderRepository
	now         func() time.Time
}

// NewCreateOrderUseCase construye el caso de uso. orderRepo se usa solo para lecturas fuera de tx.
func NewCreateOrderUseCase(
	txRunner OrderTxRunner,
	inventoryUC InventoryUseCase,
	orderRepo repository.OrderRepository,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

// CreateOrder ejecuta el checkout completo en una transacción:
//  1. valida cliente (si viene), productos y existencia acumulada por producto;
//  2. calcula impuesto y total;
//  3. inserta la cabecera en estado PAID;
//  4. por cada línea, en el orden del carrito, inserta la línea y descuenta stock (SALE);
//  5. inserta el pago.
//
// Cualquier error deja la base como estaba: sin orden, sin líneas, sin pago, sin movimientos.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if err := validateOrder(in); err != nil {
		return nil, err
	}

	now := uc.now()
	orderID := uuid.New().String()
	var totals sales.Totals

	err := uc.txRunner.RunOrder(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error {
		if in.CustomerID != "" {
			customer, err := customerRepo.GetByID(ctx, in.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
			}
		}

		// 1) Validación de solo lectura. La existencia se compara contra lo pedido acumulado
		// por producto, así una línea repetida no pasa la validación para fallar después.
		requested := make(map[string]int64, len(in.Items))
		subtotal := decimal.Zero
		for _, item := range in.Items {
			product, err := productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
			}
			stock, err := stockRepo.Get(ctx, item.ProductID)
			if err != nil {
				return err
			}
			requested[item.ProductID] += item.Qty
			if stock.QtyOnHand < requested[item.ProductID] {
				return fmt.Errorf("%w: producto %s (%s), disponible %d, solicitado %d",
					domain.ErrInsufficientStock, product.ID, product.SKU, stock.QtyOnHand, requested[item.ProductID])
			}
			subtotal = subtotal.Add(sales.LineAmount(item.UnitPrice, item.Qty))
		}

		// 2) Totales
		totals = sales.Calculate(subtotal, in.TaxRate, in.Discount)

		// 3) Cabecera
		order := &entity.Order{
			ID:         orderID,
			CustomerID: in.CustomerID,
			UserID:     userID,
			Status:     entity.OrderStatusPaid,
			Subtotal:   totals.Subtotal,
			Tax:        totals.Tax,
			Discount:   totals.Discount,
			Total:      totals.Total,
			CreatedAt:  now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}

		// 4) Líneas + salida de inventario. El descuento condicional vuelve a comprobar la
		// existencia al escribir; si otra venta la consumió entre medio, falla con ErrStockRace.
		for i, item := range in.Items {
			line := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				LineNo:    i + 1,
				ProductID: item.ProductID,
				Qty:       item.Qty,
				UnitPrice: item.UnitPrice,
				LineTotal: sales.LineTotal(item.UnitPrice, item.Qty),
			}
			if err := orderRepo.CreateItem(ctx, line); err != nil {
				return err
			}
			if err := uc.inventoryUC.RegisterSaleInTx(ctx, movRepo, stockRepo, item.ProductID, item.Qty, orderID, userID, now); err != nil {
				return err
			}
		}

		// 5) Pago
		return orderRepo.CreatePayment(ctx, &entity.Payment{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Method:    in.Payment.Method,
			Amount:    in.Payment.Amount,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateOrderResponse{
		OrderID:  orderID,
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Discount: totals.Discount,
		Total:    totals.Total,
	}, nil
}

func validateOrder(in dto.CreateOrderRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}
	for i, item := range in.Items {
		if item.ProductID == "" || item.Qty <= 0 || item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: línea %d", domain.ErrInvalidInput, i+1)
		}
	}
	if in.TaxRate.IsNegative() || in.Discount.IsNegative() {
		return fmt.Errorf("%w: tasa de impuesto o descuento negativo", domain.ErrInvalidInput)
	}
	switch in.Payment.Method {
	case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodOther:
	default:
		return fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.Payment.Method)
	}
	if in.Payment.Amount.IsNegative() {
		return fmt.Errorf("%w: monto de pago negativo", domain.ErrInvalidInput)
	}
	return nil
}

// GetOrder devuelve la orden con sus líneas (SKU y nombre del producto) y pagos.
// Es de solo lectura: llamarla varias veces devuelve lo mismo.
func (uc *CreateOrderUseCase) GetOrder(ctx context.Context, orderID string) (*dto.OrderDetailResponse, error) {
	order, items, payments, err := loadOrder(ctx, uc.orderRepo, orderID)
	if err != nil {
		return nil, err
	}

	out := &dto.OrderDetailResponse{
		Order: dto.OrderResponse{
			ID:         order.ID,
			CustomerID: order.CustomerID,
			UserID:     order.UserID,
			Status:     order.Status,
			Subtotal:   order.Subtotal,
			Tax:        order.Tax,
			Discount:   order.Discount,
			Total:      order.Total,
			CreatedAt:  order.CreatedAt,
		},
		Items:    make([]dto.OrderItemResponse, 0, len(items)),
		Payments: make([]dto.PaymentResponse, 0, len(payments)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			SKU:       it.ProductSKU,
			Name:      it.ProductName,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Method:    p.Method,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

func loadOrder(ctx context.Context, repo repository.OrderRepository, orderID string) (*entity.Order, []*entity.OrderItem, []*entity.Payment, error) {
	if orderID == "" {
		return nil, nil, nil, domain.ErrInvalidInput
	}
	order, err := repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	if order == nil {
		return nil, nil, nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
	}
	items, err := repo.GetItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	payments, err := repo.GetPaymentsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}
	return order, items, payments, nil
}
