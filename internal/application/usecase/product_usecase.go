package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	domaininv "github.com/jhoicas/retailflow-api/internal/domain/inventory"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

const (
	defaultReorderLevel = 10
	maxProductPage      = 200
)

// ProductUseCase alta y consulta del catálogo. El stock solo cambia vía ajustes u órdenes.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.ProductRepository
	stock    repository.StockRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repo repository.ProductRepository, stock repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, stock: stock}
}

// Create crea el producto y su fila de stock con la existencia inicial, en una transacción.
// La existencia inicial no genera movimiento en el ledger.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" || in.UnitPrice.IsNegative() || in.CostPrice.IsNegative() || in.QtyOnHand < 0 {
		return nil, domain.ErrInvalidInput
	}
	reorder := int64(defaultReorderLevel)
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		reorder = *in.ReorderLevel
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		UnitPrice:    in.UnitPrice.Round(2),
		CostPrice:    in.CostPrice.Round(2),
		ReorderLevel: reorder,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	qty := domaininv.SeedQuantity(in.QtyOnHand)

	err := uc.txRunner.Run(ctx, func(
		_ repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		existing, err := productRepo.GetBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, product.SKU)
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		return stockRepo.Upsert(ctx, &entity.StockLevel{ProductID: product.ID, QtyOnHand: qty, UpdatedAt: now})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, qty), nil
}

// GetByID obtiene un producto con su existencia actual. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	st, err := uc.stock.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var qty int64
	if st != nil {
		qty = st.QtyOnHand
	}
	return toProductResponse(product, qty), nil
}

// List busca por nombre o SKU, ordenado por nombre.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	if in.Limit <= 0 {
		in.Limit = maxProductPage
	}
	in.DefaultPage()
	if in.Limit > maxProductPage {
		in.Limit = maxProductPage
	}
	list, err := uc.repo.List(ctx, strings.TrimSpace(in.Search), in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(&p.Product, p.QtyOnHand))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func toProductResponse(p *entity.Product, qty int64) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		UnitPrice:    p.UnitPrice,
		CostPrice:    p.CostPrice,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
		QtyOnHand:    qty,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
