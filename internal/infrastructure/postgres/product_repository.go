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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, unit_price, cost_price, reorder_level, is_active, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.UnitPrice, product.CostPrice,
		product.ReorderLevel, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, product.SKU)
		}
		return infraErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, infraErr("get product", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU. nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, infraErr("get product by sku", err)
	}
	return p, nil
}

// List productos con su existencia, filtrando por nombre o SKU.
func (r *ProductRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.ProductWithStock, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.unit_price, p.cost_price, p.reorder_level, p.is_active,
		       p.created_at, p.updated_at, COALESCE(s.qty_on_hand, 0)
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		WHERE $1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.sku ILIKE '%' || $1 || '%'
		ORDER BY p.name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, infraErr("list products", err)
	}
	return scanProductsWithStock(rows, "list products")
}

// ListLowStock productos activos en o bajo su nivel de reorden.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit, offset int) ([]*entity.ProductWithStock, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.unit_price, p.cost_price, p.reorder_level, p.is_active,
		       p.created_at, p.updated_at, COALESCE(s.qty_on_hand, 0)
		FROM products p
		LEFT JOIN stock_levels s ON s.product_id = p.id
		WHERE p.is_active
		  AND COALESCE(s.qty_on_hand, 0) <= p.reorder_level
		ORDER BY COALESCE(s.qty_on_hand, 0) ASC, p.name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, infraErr("list low stock", err)
	}
	return scanProductsWithStock(rows, "list low stock")
}

func scanProductsWithStock(rows pgx.Rows, op string) ([]*entity.ProductWithStock, error) {
	defer rows.Close()

	var list []*entity.ProductWithStock
	for rows.Next() {
		var p entity.ProductWithStock
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.UnitPrice, &p.CostPrice, &p.ReorderLevel, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt, &p.QtyOnHand,
		); err != nil {
			return nil, infraErr("scan product", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, infraErr(op, err)
	}
	return list, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.UnitPrice, &p.CostPrice, &p.ReorderLevel, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
