package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto. Sin fila = cantidad 0.
func (r *StockRepo) Get(ctx context.Context, productID string) (*entity.StockLevel, error) {
	query := `
		SELECT product_id, qty_on_hand, updated_at
		FROM stock_levels WHERE product_id = $1`
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.QtyOnHand, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{ProductID: productID}, nil
		}
		return nil, infraErr("get stock", err)
	}
	return &s, nil
}

// GetForUpdate asegura que la fila exista (en 0) y la bloquea con SELECT FOR UPDATE.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.StockLevel, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (product_id, qty_on_hand, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (product_id) DO NOTHING`, productID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		return nil, infraErr("ensure stock row", err)
	}

	query := `
		SELECT product_id, qty_on_hand, updated_at
		FROM stock_levels WHERE product_id = $1
		FOR UPDATE`
	var s entity.StockLevel
	if err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.QtyOnHand, &s.UpdatedAt); err != nil {
		return nil, infraErr("get stock for update", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockLevel) error {
	if stock.QtyOnHand < 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrInvariantViolation, stock.ProductID)
	}
	query := `
		INSERT INTO stock_levels (product_id, qty_on_hand, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET qty_on_hand = EXCLUDED.qty_on_hand, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.QtyOnHand)
	if err != nil {
		switch {
		case isCheckViolation(err):
			return fmt.Errorf("%w: producto %s", domain.ErrInvariantViolation, stock.ProductID)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, stock.ProductID)
		}
		return infraErr("upsert stock", err)
	}
	return nil
}

// Decrement resta qty en una sola sentencia que toma el lock de la fila.
// Cero filas afectadas = no había existencia suficiente al momento de escribir.
func (r *StockRepo) Decrement(ctx context.Context, productID string, qty int64) (int64, bool, error) {
	query := `
		UPDATE stock_levels
		SET qty_on_hand = qty_on_hand - $2, updated_at = now()
		WHERE product_id = $1 AND qty_on_hand >= $2
		RETURNING qty_on_hand`
	var newQty int64
	err := r.q.QueryRow(ctx, query, productID, qty).Scan(&newQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		if isCheckViolation(err) {
			return 0, false, nil
		}
		return 0, false, infraErr("decrement stock", err)
	}
	return newQty, true, nil
}
