package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/infrastructure/memory"
)

// seedReorder crea un producto con nivel de reorden; qty < 0 = sin fila de stock.
func (f *fixture) seedReorder(t *testing.T, name string, reorder, qty int64, active bool) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	require.NoError(t, memory.NewProductRepository(f.store).Create(ctx, &entity.Product{
		ID: id, SKU: "SKU-" + name, Name: name, ReorderLevel: reorder, IsActive: active,
	}))
	if qty >= 0 {
		require.NoError(t, f.stock.Upsert(ctx, &entity.StockLevel{ProductID: id, QtyOnHand: qty}))
	}
	return id
}

func TestListLowStock_EnOBajoNivelDeReorden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	justo := f.seedReorder(t, "Arroz", 5, 5, true)
	bajo := f.seedReorder(t, "Café", 10, 2, true)
	sinFila := f.seedReorder(t, "Azúcar", 3, -1, true)
	f.seedReorder(t, "Harina", 5, 6, true)
	f.seedReorder(t, "Descontinuado", 10, 0, false)

	uc := inventory.NewLowStockUseCase(memory.NewProductRepository(f.store))
	out, err := uc.ListLowStock(ctx, dto.LowStockRequest{})
	require.NoError(t, err)

	require.Len(t, out.Items, 3)
	assert.Equal(t, sinFila, out.Items[0].ProductID, "sin fila de stock cuenta como 0")
	assert.Equal(t, int64(3), out.Items[0].Shortfall)
	assert.Equal(t, bajo, out.Items[1].ProductID)
	assert.Equal(t, int64(2), out.Items[1].QtyOnHand)
	assert.Equal(t, int64(8), out.Items[1].Shortfall)
	assert.Equal(t, justo, out.Items[2].ProductID)
	assert.Zero(t, out.Items[2].Shortfall)
	assert.Equal(t, 20, out.Page.Limit)
}

func TestListLowStock_SigueAlStockConfirmado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pid := f.seedReorder(t, "Leche", 4, 6, true)
	uc := inventory.NewLowStockUseCase(memory.NewProductRepository(f.store))

	out, err := uc.ListLowStock(ctx, dto.LowStockRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	_, err = f.uc.AdjustStock(ctx, inventory.AdjustInput{ProductID: pid, DeltaQty: -2})
	require.NoError(t, err)

	out, err = uc.ListLowStock(ctx, dto.LowStockRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "SKU-Leche", out.Items[0].SKU)
	assert.Equal(t, int64(4), out.Items[0].QtyOnHand)
}

func TestListLowStock_Paginado(t *testing.T) {
	f := newFixture()
	for _, name := range []string{"A", "B", "C"} {
		f.seedReorder(t, name, 10, 1, true)
	}
	uc := inventory.NewLowStockUseCase(memory.NewProductRepository(f.store))

	out, err := uc.ListLowStock(context.Background(), dto.LowStockRequest{PageRequest: dto.PageRequest{Limit: 2, Offset: 1}})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "B", out.Items[0].Name, "a igual existencia ordena por nombre")
	assert.Equal(t, "C", out.Items[1].Name)
}
