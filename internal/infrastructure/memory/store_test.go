package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

func seed(t *testing.T, s *Store, id string, qty int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, NewProductRepository(s).Create(ctx, &entity.Product{ID: id, SKU: "SKU-" + id, Name: id, UnitPrice: decimal.NewFromInt(1)}))
	require.NoError(t, NewStockRepository(s).Upsert(ctx, &entity.StockLevel{ProductID: id, QtyOnHand: qty}))
}

func TestTx_EscriturasInvisiblesHastaCommit(t *testing.T) {
	s := NewStore()
	seed(t, s, "p1", 5)
	outside := NewStockRepository(s)
	ctx := context.Background()

	err := NewTxRunner(s).Run(ctx, func(_ repository.InventoryMovementRepository, stock repository.StockRepository, _ repository.ProductRepository) error {
		newQty, ok, err := stock.Decrement(ctx, "p1", 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(3), newQty)

		inside, err := stock.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), inside.QtyOnHand, "la tx ve sus propias escrituras")

		other, err := outside.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, int64(5), other.QtyOnHand, "fuera de la tx se ve lo confirmado")
		return nil
	})
	require.NoError(t, err)

	st, err := outside.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.QtyOnHand)
}

func TestTx_RollbackDescartaEscrituras(t *testing.T) {
	s := NewStore()
	seed(t, s, "p1", 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(mov repository.InventoryMovementRepository, stock repository.StockRepository, _ repository.ProductRepository) error {
		_, _, err := stock.Decrement(ctx, "p1", 5)
		require.NoError(t, err)
		require.NoError(t, mov.Create(ctx, &entity.InventoryMovement{ProductID: "p1", DeltaQty: -5}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, _ := NewStockRepository(s).Get(ctx, "p1")
	assert.Equal(t, int64(5), st.QtyOnHand)
	sum, _ := NewInventoryMovementRepository(s).SumByProduct(ctx, "p1")
	assert.Zero(t, sum)
}

func TestTx_BloqueoDeFilaEsperaAlCommit(t *testing.T) {
	s := NewStore()
	seed(t, s, "p1", 1)
	ctx := context.Background()
	runner := NewTxRunner(s)

	locked := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- runner.Run(ctx, func(_ repository.InventoryMovementRepository, stock repository.StockRepository, _ repository.ProductRepository) error {
			if _, err := stock.GetForUpdate(ctx, "p1"); err != nil {
				return err
			}
			close(locked)
			<-release
			_, _, err := stock.Decrement(ctx, "p1", 1)
			return err
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, _, err := NewStockRepository(s).Decrement(waitCtx, "p1", 1)
	require.Error(t, err, "sin liberar el bloqueo la segunda escritura espera")
	assert.True(t, errors.Is(err, domain.ErrInfrastructure))

	close(release)
	require.NoError(t, <-firstDone)

	_, ok, err := NewStockRepository(s).Decrement(ctx, "p1", 1)
	require.NoError(t, err)
	assert.False(t, ok, "tras el commit ya no queda existencia")
}

func TestTx_CicloDeEsperaDevuelveLockConflict(t *testing.T) {
	s := NewStore()
	seed(t, s, "a", 1)
	seed(t, s, "b", 1)
	ctx := context.Background()

	t1, t2 := s.begin(), s.begin()
	require.NoError(t, t1.lock(ctx, "a"))
	require.NoError(t, t2.lock(ctx, "b"))

	waited := make(chan error, 1)
	go func() { waited <- t1.lock(ctx, "b") }()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.waiting[t1] == "b"
	}, time.Second, 5*time.Millisecond)

	err := t2.lock(ctx, "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLockConflict))
	assert.Contains(t, err.Error(), "a")

	t2.rollback()
	select {
	case err := <-waited:
		require.NoError(t, err, "al liberar b la otra transacción lo obtiene")
	case <-time.After(time.Second):
		t.Fatal("t1 sigue esperando la fila b")
	}
	require.NoError(t, t1.commit())

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.locks)
	assert.Empty(t, s.waiting)
}

func TestTx_EsperaSinCicloNoEsConflicto(t *testing.T) {
	s := NewStore()
	seed(t, s, "a", 1)
	ctx := context.Background()

	t1, t2 := s.begin(), s.begin()
	require.NoError(t, t1.lock(ctx, "a"))
	got := make(chan error, 1)
	go func() { got <- t2.lock(ctx, "a") }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.waiting[t2] == "a"
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, t1.commit())
	require.NoError(t, <-got)
	t2.rollback()
}

func TestStock_UpsertNegativoYSinProducto(t *testing.T) {
	s := NewStore()
	seed(t, s, "p1", 0)
	repo := NewStockRepository(s)
	ctx := context.Background()

	err := repo.Upsert(ctx, &entity.StockLevel{ProductID: "p1", QtyOnHand: -1})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	err = repo.Upsert(ctx, &entity.StockLevel{ProductID: "ghost", QtyOnHand: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = repo.GetForUpdate(ctx, "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	st, err := repo.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, st.QtyOnHand)
}

func TestStock_DecrementSinFilaNoAfecta(t *testing.T) {
	s := NewStore()
	require.NoError(t, NewProductRepository(s).Create(context.Background(), &entity.Product{ID: "p2", SKU: "S2"}))

	_, ok, err := NewStockRepository(s).Decrement(context.Background(), "p2", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProduct_SKUUnico(t *testing.T) {
	s := NewStore()
	repo := NewProductRepository(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "a", SKU: "DUP"}))

	err := repo.Create(ctx, &entity.Product{ID: "b", SKU: "DUP"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	got, err := repo.GetBySKU(ctx, "DUP")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)
}

// Dos transacciones crean el mismo SKU sin verse: la segunda en confirmar falla entera.
func TestProduct_SKUDuplicadoEntreTransaccionesFallaEnCommit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	runner := NewTxRunner(s)

	created := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- runner.Run(ctx, func(_ repository.InventoryMovementRepository, stock repository.StockRepository, products repository.ProductRepository) error {
			if err := products.Create(ctx, &entity.Product{ID: "p1", SKU: "SAME"}); err != nil {
				return err
			}
			if err := stock.Upsert(ctx, &entity.StockLevel{ProductID: "p1", QtyOnHand: 3}); err != nil {
				return err
			}
			close(created)
			<-release
			return nil
		})
	}()
	<-created

	err := runner.Run(ctx, func(_ repository.InventoryMovementRepository, stock repository.StockRepository, products repository.ProductRepository) error {
		require.NoError(t, products.Create(ctx, &entity.Product{ID: "p2", SKU: "SAME"}), "el SKU pendiente de otra tx no es visible")
		require.NoError(t, stock.Upsert(ctx, &entity.StockLevel{ProductID: "p2", QtyOnHand: 7}))
		close(release)
		require.NoError(t, <-firstDone)
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	got, err := NewProductRepository(s).GetBySKU(ctx, "SAME")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p1", got.ID)

	lost, err := NewProductRepository(s).GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Nil(t, lost, "el commit fallido no deja el producto")
	st, err := NewStockRepository(s).Get(ctx, "p2")
	require.NoError(t, err)
	assert.Zero(t, st.QtyOnHand)
}

func TestOrder_ClienteDebeExistir(t *testing.T) {
	s := NewStore()
	err := NewOrderRepository(s).Create(context.Background(), &entity.Order{ID: "o1", CustomerID: "nobody"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
