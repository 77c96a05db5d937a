package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

// LedgerUseCase consulta de solo lectura del ledger de movimientos (auditoría / conciliación).
type LedgerUseCase struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	movRepo     repository.InventoryMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{productRepo: productRepo, stockRepo: stockRepo, movRepo: movRepo}
}

// ListMovements movimientos de un producto, más recientes primero, con su existencia actual
// y la suma de todos sus asientos (ver Reconcile).
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	in.DefaultPage()

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	qty, sum, err := uc.Reconcile(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.ListByProduct(ctx, in.ProductID, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	out := &dto.MovementListResponse{
		ProductID: in.ProductID,
		QtyOnHand: qty,
		LedgerSum: sum,
		Items:     make([]dto.MovementResponse, 0, len(movs)),
		Page:      dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, m := range movs {
		out.Items = append(out.Items, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			DeltaQty:  m.DeltaQty,
			Reason:    m.Reason,
			RefType:   m.RefType,
			RefID:     m.RefID,
			Note:      m.Note,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// Reconcile devuelve (stock actual, suma del ledger). La diferencia es la existencia
// inicial sembrada al crear el producto, que no genera movimiento.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID string) (int64, int64, error) {
	stock, err := uc.stockRepo.Get(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	sum, err := uc.movRepo.SumByProduct(ctx, productID)
	if err != nil {
		return 0, 0, err
	}
	var qty int64
	if stock != nil {
		qty = stock.QtyOnHand
	}
	return qty, sum, nil
}
