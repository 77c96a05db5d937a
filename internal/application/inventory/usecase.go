package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/inventory"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

// AdjustStockUseCase aplica ajustes manuales de stock y las salidas por venta,
// siempre con el cambio de cantidad y su asiento en el ledger dentro de la misma transacción.
type AdjustStockUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, now: time.Now}
}

// AdjustInput entrada de un ajuste manual.
type AdjustInput struct {
	UserID    string
	ProductID string
	DeltaQty  int64
	Reason    string // ADJUSTMENT, RETURN_IN o RETURN_OUT
	Note      string
}

// AdjustStock bloquea la fila de stock del producto (SELECT FOR UPDATE), aplica el delta,
// escribe la nueva cantidad y agrega un movimiento con ref ADJUSTMENT. Devuelve la cantidad resultante.
// Un resultado negativo es ErrInvariantViolation y no deja rastro.
func (uc *AdjustStockUseCase) AdjustStock(ctx context.Context, in AdjustInput) (int64, error) {
	if in.ProductID == "" {
		return 0, domain.ErrInvalidInput
	}
	if in.Reason == "" {
		in.Reason = entity.MovementReasonAdjustment
	}
	if !entity.IsAdjustmentReason(in.Reason) {
		return 0, fmt.Errorf("%w: motivo %q", domain.ErrInvalidInput, in.Reason)
	}

	now := uc.now()
	var result int64
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}

		stock, err := stockRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		newQty, err := inventory.NextQuantity(stock.QtyOnHand, in.DeltaQty)
		if err != nil {
			return fmt.Errorf("producto %s: %w", in.ProductID, err)
		}
		stock.QtyOnHand = newQty
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, stock); err != nil {
			return err
		}

		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			DeltaQty:  in.DeltaQty,
			Reason:    in.Reason,
			RefType:   entity.MovementRefAdjustment,
			RefID:     uuid.New().String(),
			Note:      in.Note,
			CreatedBy: in.UserID,
			CreatedAt: now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		result = newQty
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// RegisterSaleInTx descuenta qty del stock y agrega el movimiento SALE usando los repositorios
// del caller (misma transacción de la orden). El descuento es condicional y atómico: si en el
// momento de escribir no hay existencia suficiente devuelve ErrStockRace y el caller hace rollback.
func (uc *AdjustStockUseCase) RegisterSaleInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	productID string,
	qty int64,
	orderID, userID string,
	now time.Time,
) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, qty)
	}
	_, ok, err := stockRepo.Decrement(ctx, productID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrStockRace, productID)
	}
	return movRepo.Create(ctx, &entity.InventoryMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		DeltaQty:  -qty,
		Reason:    entity.MovementReasonSale,
		RefType:   entity.MovementRefOrder,
		RefID:     orderID,
		CreatedBy: userID,
		CreatedAt: now,
	})
}
