package repository

import (
	"context"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// List busca por SKU o nombre (vacío = todos) e incluye la existencia actual.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.ProductWithStock, error)
	// ListLowStock productos activos con existencia <= reorder_level (sin fila de stock = 0),
	// menor existencia primero y luego por nombre.
	ListLowStock(ctx context.Context, limit, offset int) ([]*entity.ProductWithStock, error)
}
