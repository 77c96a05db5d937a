package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/infrastructure/memory"
)

type capturingGenerator struct {
	got orders.ReceiptData
	err error
}

func (g *capturingGenerator) GenerateReceipt(_ context.Context, data orders.ReceiptData) ([]byte, error) {
	g.got = data
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func TestDownloadReceipt_ArmaDatosDeLaOrden(t *testing.T) {
	e := newEnv()
	pid := e.seedProduct(t, "RC", "2.00", 3)
	customerID := uuid.New().String()
	require.NoError(t, memory.NewCustomerRepository(e.store).Create(context.Background(), &entity.Customer{ID: customerID, FullName: "Luis"}))
	out, err := e.uc.CreateOrder(context.Background(), "u", dto.CreateOrderRequest{
		CustomerID: customerID,
		Items:      []dto.OrderItemRequest{{ProductID: pid, Qty: 2, UnitPrice: dec("2.00")}},
		Payment:    cash("4.00"),
	})
	require.NoError(t, err)

	gen := &capturingGenerator{}
	uc := orders.NewReceiptUseCase(memory.NewOrderRepository(e.store), memory.NewCustomerRepository(e.store), gen, "Tienda")

	pdf, filename, err := uc.DownloadReceipt(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "recibo-"+out.OrderID+".pdf", filename)
	assert.Equal(t, "Tienda", gen.got.StoreName)
	require.NotNil(t, gen.got.Customer)
	assert.Equal(t, "Luis", gen.got.Customer.FullName)
	require.Len(t, gen.got.Items, 1)
	assert.Equal(t, "RC", gen.got.Items[0].ProductSKU)
	require.Len(t, gen.got.Payments, 1)
}

func TestDownloadReceipt_OrdenInexistente(t *testing.T) {
	e := newEnv()
	uc := orders.NewReceiptUseCase(memory.NewOrderRepository(e.store), memory.NewCustomerRepository(e.store), &capturingGenerator{}, "")

	_, _, err := uc.DownloadReceipt(context.Background(), uuid.New().String())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDownloadReceipt_FallaDelGenerador(t *testing.T) {
	e := newEnv()
	pid := e.seedProduct(t, "RF", "1.00", 1)
	out, err := e.uc.CreateOrder(context.Background(), "u", dto.CreateOrderRequest{
		Items:   []dto.OrderItemRequest{{ProductID: pid, Qty: 1, UnitPrice: dec("1.00")}},
		Payment: cash("1.00"),
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	uc := orders.NewReceiptUseCase(memory.NewOrderRepository(e.store), memory.NewCustomerRepository(e.store), &capturingGenerator{err: boom}, "")
	_, _, err = uc.DownloadReceipt(context.Background(), out.OrderID)
	assert.ErrorIs(t, err, boom)
}
