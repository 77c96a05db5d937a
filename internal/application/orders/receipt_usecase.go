package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una orden ya confirmada.
type ReceiptUseCase struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	generator    ReceiptGenerator
	storeName    string
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	generator ReceiptGenerator,
	storeName string,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		generator:    generator,
		storeName:    storeName,
	}
}

// DownloadReceipt devuelve los bytes del PDF y el nombre de archivo sugerido.
// domain.ErrNotFound si la orden no existe.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, orderID string) ([]byte, string, error) {
	order, items, payments, err := loadOrder(ctx, uc.orderRepo, orderID)
	if err != nil {
		return nil, "", err
	}

	var customer *entity.Customer
	if order.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(ctx, order.CustomerID)
		if err != nil {
			return nil, "", err
		}
	}

	pdf, err := uc.generator.GenerateReceipt(ctx, ReceiptData{
		StoreName: uc.storeName,
		Order:     order,
		Customer:  customer,
		Items:     items,
		Payments:  payments,
	})
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", order.ID), nil
}
