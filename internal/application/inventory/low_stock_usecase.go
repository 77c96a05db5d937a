package inventory

import (
	"context"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

// LowStockUseCase reporte de productos que llegaron a su nivel de reorden.
// Es una lectura del estado confirmado; no sugiere cantidades de compra.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo}
}

// ListLowStock productos activos con qty_on_hand <= reorder_level, menor existencia primero.
func (uc *LowStockUseCase) ListLowStock(ctx context.Context, in dto.LowStockRequest) (*dto.LowStockResponse, error) {
	in.DefaultPage()

	rows, err := uc.productRepo.ListLowStock(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}

	out := &dto.LowStockResponse{
		Items: make([]dto.LowStockItem, 0, len(rows)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, p := range rows {
		out.Items = append(out.Items, dto.LowStockItem{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			QtyOnHand:    p.QtyOnHand,
			ReorderLevel: p.ReorderLevel,
			Shortfall:    p.ReorderLevel - p.QtyOnHand,
		})
	}
	return out, nil
}
