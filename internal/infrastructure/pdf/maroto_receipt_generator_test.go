package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", formatMoney(decimal.Zero))
	assert.Equal(t, "$103.00", formatMoney(decimal.RequireFromString("103")))
	assert.Equal(t, "$1,234,567.50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "-$5.00", formatMoney(decimal.RequireFromString("-5")))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0F3A9C1E", shortID("0f3a9c1e-1111-2222-3333-444455556666"))
	assert.Equal(t, "AB", shortID("ab"))
}

func TestGenerateReceipt_ProducePDF(t *testing.T) {
	order := &entity.Order{
		ID:        "0f3a9c1e-1111-2222-3333-444455556666",
		UserID:    "cashier-1",
		Status:    entity.OrderStatusPaid,
		Subtotal:  decimal.RequireFromString("100.00"),
		Tax:       decimal.RequireFromString("8.00"),
		Discount:  decimal.RequireFromString("5.00"),
		Total:     decimal.RequireFromString("103.00"),
		CreatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	data := orders.ReceiptData{
		StoreName: "Tienda Centro",
		Order:     order,
		Customer:  &entity.Customer{ID: "c-1", FullName: "Ana Pérez"},
		Items: []*entity.OrderItem{{
			ID: "i-1", OrderID: order.ID, LineNo: 1, ProductID: "p-1", Qty: 4,
			UnitPrice: decimal.RequireFromString("25.00"), LineTotal: decimal.RequireFromString("100.00"),
			ProductSKU: "SKU-1", ProductName: "Café 500g",
		}},
		Payments: []*entity.Payment{{ID: "pay-1", OrderID: order.ID, Method: entity.PaymentMethodCash, Amount: decimal.RequireFromString("103.00")}},
	}

	out, err := NewMarotoReceiptGenerator().GenerateReceipt(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe ser un PDF")
}

func TestGenerateReceipt_SinOrdenFalla(t *testing.T) {
	_, err := NewMarotoReceiptGenerator().GenerateReceipt(context.Background(), orders.ReceiptData{})
	require.Error(t, err)
}
