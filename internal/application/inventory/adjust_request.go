package inventory

import (
	"context"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
)

// AdjustStockFromRequest adapta el request HTTP al caso de uso AdjustStock(ctx, AdjustInput).
func (uc *AdjustStockUseCase) AdjustStockFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	qty, err := uc.AdjustStock(ctx, AdjustInput{
		UserID:    userID,
		ProductID: in.ProductID,
		DeltaQty:  in.DeltaQty,
		Reason:    in.Reason,
		Note:      in.Note,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{OK: true, ProductID: in.ProductID, QtyOnHand: qty}, nil
}
