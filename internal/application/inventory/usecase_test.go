package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
	"github.com/jhoicas/retailflow-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store  *memory.Store
	runner *memory.TxRunner
	uc     *inventory.AdjustStockUseCase
	stock  *memory.StockRepo
	movs   *memory.InventoryMovementRepo
}

func newFixture() *fixture {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	return &fixture{
		store:  store,
		runner: runner,
		uc:     inventory.NewAdjustStockUseCase(runner),
		stock:  memory.NewStockRepository(store),
		movs:   memory.NewInventoryMovementRepository(store),
	}
}

// seedProduct crea un producto; qty < 0 = sin fila de stock.
func (f *fixture) seedProduct(t *testing.T, sku string, qty int64) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	require.NoError(t, memory.NewProductRepository(f.store).Create(ctx, &entity.Product{
		ID: id, SKU: sku, Name: "Producto " + sku, UnitPrice: decimal.NewFromInt(10), IsActive: true,
	}))
	if qty >= 0 {
		require.NoError(t, f.stock.Upsert(ctx, &entity.StockLevel{ProductID: id, QtyOnHand: qty}))
	}
	return id
}

func (f *fixture) qty(t *testing.T, productID string) int64 {
	t.Helper()
	st, err := f.stock.Get(context.Background(), productID)
	require.NoError(t, err)
	return st.QtyOnHand
}

func (f *fixture) movements(t *testing.T, productID string) []*entity.InventoryMovement {
	t.Helper()
	list, err := f.movs.ListByProduct(context.Background(), productID, 100, 0)
	require.NoError(t, err)
	return list
}

// ─────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ─────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_EntradaSumaYRegistraMovimiento(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "A-1", 4)

	qty, err := f.uc.AdjustStock(context.Background(), inventory.AdjustInput{
		UserID: "manager-1", ProductID: pid, DeltaQty: 6, Reason: entity.MovementReasonReturnIn, Note: "devolución",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), qty)
	assert.Equal(t, int64(10), f.qty(t, pid))

	movs := f.movements(t, pid)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(6), movs[0].DeltaQty)
	assert.Equal(t, entity.MovementReasonReturnIn, movs[0].Reason)
	assert.Equal(t, entity.MovementRefAdjustment, movs[0].RefType)
	assert.NotEmpty(t, movs[0].RefID)
	assert.Equal(t, "devolución", movs[0].Note)
	assert.Equal(t, "manager-1", movs[0].CreatedBy)
}

func TestAdjustStock_MotivoPorDefectoEsAdjustment(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "A-2", 1)

	_, err := f.uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: pid, DeltaQty: 2})
	require.NoError(t, err)

	movs := f.movements(t, pid)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementReasonAdjustment, movs[0].Reason)
}

// Stock 4, ajuste -10: falla y no deja rastro.
func TestAdjustStock_NegativoEsViolacionDeInvariante(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "C-1", 4)

	_, err := f.uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: pid, DeltaQty: -10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	assert.Equal(t, int64(4), f.qty(t, pid))
	assert.Empty(t, f.movements(t, pid))
}

func TestAdjustStock_SinFilaDeStockPartiendoDeCero(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "L-1", -1)

	qty, err := f.uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: pid, DeltaQty: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), qty)

	_, err = f.uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: f.seedProduct(t, "L-2", -1), DeltaQty: -1})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestAdjustStock_ProductoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: uuid.New().String(), DeltaQty: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAdjustStock_MotivoSaleNoPermitido(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "S-1", 5)

	_, err := f.uc.AdjustStock(context.Background(), inventory.AdjustInput{ProductID: pid, DeltaQty: -1, Reason: entity.MovementReasonSale})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, int64(5), f.qty(t, pid))
}

// qty_on_hand = Q0 + Σ delta después de cualquier secuencia de ajustes, incluidos los que fallan.
func TestAdjustStock_LedgerConsistente(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "LED-1", -1)
	ctx := context.Background()

	for _, d := range []int64{5, -2, -10, 7, -10, 3} {
		_, _ = f.uc.AdjustStock(ctx, inventory.AdjustInput{ProductID: pid, DeltaQty: d})
	}

	ledger := inventory.NewLedgerUseCase(memory.NewProductRepository(f.store), f.stock, f.movs)
	stock, sum, err := ledger.Reconcile(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stock)
	assert.Equal(t, stock, sum)
}

// Ajustes y ventas intercalados, con un ajuste y una orden que fallan:
// qty_on_hand = Q0 (sembrado, sin movimiento) + Σ delta del ledger.
func TestLedgerConsistente_AjustesYOrdenes(t *testing.T) {
	f := newFixture()
	const q0 = 10
	pid := f.seedProduct(t, "LED-2", q0)
	other := f.seedProduct(t, "LED-3", 1)
	ctx := context.Background()
	checkout := orders.NewCreateOrderUseCase(f.runner, f.uc, memory.NewOrderRepository(f.store))
	order := func(items ...dto.OrderItemRequest) error {
		_, err := checkout.CreateOrder(ctx, "cashier-1", dto.CreateOrderRequest{
			Items:   items,
			Payment: dto.PaymentRequest{Method: entity.PaymentMethodCash, Amount: decimal.NewFromInt(1)},
		})
		return err
	}
	line := func(productID string, qty int64) dto.OrderItemRequest {
		return dto.OrderItemRequest{ProductID: productID, Qty: qty, UnitPrice: decimal.NewFromInt(10)}
	}

	require.NoError(t, order(line(pid, 3)))
	_, err := f.uc.AdjustStock(ctx, inventory.AdjustInput{ProductID: pid, DeltaQty: 4, Reason: entity.MovementReasonReturnIn})
	require.NoError(t, err)
	// falla en la segunda línea: la primera no deja rastro
	err = order(line(pid, 2), line(other, 5))
	require.True(t, errors.Is(err, domain.ErrInsufficientStock))
	_, err = f.uc.AdjustStock(ctx, inventory.AdjustInput{ProductID: pid, DeltaQty: -50})
	require.True(t, errors.Is(err, domain.ErrInvariantViolation))
	require.NoError(t, order(line(pid, 2), line(pid, 1)))
	_, err = f.uc.AdjustStock(ctx, inventory.AdjustInput{ProductID: pid, DeltaQty: -1})
	require.NoError(t, err)

	ledger := inventory.NewLedgerUseCase(memory.NewProductRepository(f.store), f.stock, f.movs)
	stock, sum, err := ledger.Reconcile(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock) // 10 - 3 + 4 - 3 - 1
	assert.Equal(t, stock, q0+sum)
	assert.Len(t, f.movements(t, pid), 5)
}

func TestAdjustStockFromRequest_DevuelveCantidad(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "R-1", 2)

	out, err := f.uc.AdjustStockFromRequest(context.Background(), "u-1", dto.AdjustStockRequest{ProductID: pid, DeltaQty: 1, Reason: "RETURN_IN"})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int64(3), out.QtyOnHand)
}

// ─────────────────────────────────────────────────────────────────────────────
// RegisterSaleInTx
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterSaleInTx_DescuentaYRegistraSale(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "V-1", 5)
	orderID := uuid.New().String()

	err := f.runner.Run(context.Background(), func(mov repository.InventoryMovementRepository, stock repository.StockRepository, _ repository.ProductRepository) error {
		return f.uc.RegisterSaleInTx(context.Background(), mov, stock, pid, 2, orderID, "cashier-1", time.Now())
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.qty(t, pid))
	movs := f.movements(t, pid)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(-2), movs[0].DeltaQty)
	assert.Equal(t, entity.MovementReasonSale, movs[0].Reason)
	assert.Equal(t, entity.MovementRefOrder, movs[0].RefType)
	assert.Equal(t, orderID, movs[0].RefID)
}

func TestRegisterSaleInTx_SinExistenciaEsStockRaceYRollback(t *testing.T) {
	f := newFixture()
	pid := f.seedProduct(t, "V-2", 1)

	err := f.runner.Run(context.Background(), func(mov repository.InventoryMovementRepository, stock repository.StockRepository, _ repository.ProductRepository) error {
		if err := f.uc.RegisterSaleInTx(context.Background(), mov, stock, pid, 1, uuid.New().String(), "", time.Now()); err != nil {
			return err
		}
		return f.uc.RegisterSaleInTx(context.Background(), mov, stock, pid, 1, uuid.New().String(), "", time.Now())
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStockRace))

	assert.Equal(t, int64(1), f.qty(t, pid), "la primera salida también se revierte")
	assert.Empty(t, f.movements(t, pid))
}
