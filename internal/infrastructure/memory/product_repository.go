package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	scope
}

// NewProductRepository repo fuera de transacción.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{scope{s: s}}
}

// Create persiste un producto; SKU repetido es ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.productLocked(product.ID); ok {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, product.ID)
		}
		if t.skuTakenLocked(product.SKU) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, product.SKU)
		}
		t.products[product.ID] = *product
		return nil
	})
}

func (t *tx) skuTakenLocked(sku string) bool {
	if _, ok := t.s.skuIndex[sku]; ok {
		return true
	}
	for _, p := range t.products {
		if p.SKU == sku {
			return true
		}
	}
	return false
}

// GetByID nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if p, ok := t.productLocked(id); ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetBySKU nil si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		for _, p := range t.products {
			if p.SKU == sku {
				out = &p
				return nil
			}
		}
		if id, ok := t.s.skuIndex[sku]; ok {
			p := t.s.products[id]
			out = &p
		}
		return nil
	})
	return out, err
}

// List filtra por nombre o SKU (sin distinguir mayúsculas), ordenado por nombre.
func (r *ProductRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.ProductWithStock, error) {
	var out []*entity.ProductWithStock
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()

		needle := strings.ToLower(search)
		seen := make(map[string]bool)
		var all []*entity.ProductWithStock
		add := func(p entity.Product) {
			if seen[p.ID] {
				return
			}
			seen[p.ID] = true
			if needle != "" &&
				!strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.SKU), needle) {
				return
			}
			st, _ := t.stockLocked(p.ID)
			all = append(all, &entity.ProductWithStock{Product: p, QtyOnHand: st.QtyOnHand})
		}
		for _, p := range t.products {
			add(p)
		}
		for _, p := range t.s.products {
			add(p)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name == all[j].Name {
				return all[i].SKU < all[j].SKU
			}
			return all[i].Name < all[j].Name
		})

		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// ListLowStock activos con existencia <= ReorderLevel, menor existencia primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit, offset int) ([]*entity.ProductWithStock, error) {
	var out []*entity.ProductWithStock
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()

		var all []*entity.ProductWithStock
		seen := make(map[string]bool)
		add := func(p entity.Product) {
			if seen[p.ID] {
				return
			}
			seen[p.ID] = true
			st, _ := t.stockLocked(p.ID)
			if !p.IsActive || st.QtyOnHand > p.ReorderLevel {
				return
			}
			all = append(all, &entity.ProductWithStock{Product: p, QtyOnHand: st.QtyOnHand})
		}
		for _, p := range t.products {
			add(p)
		}
		for _, p := range t.s.products {
			add(p)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].QtyOnHand != all[j].QtyOnHand {
				return all[i].QtyOnHand < all[j].QtyOnHand
			}
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].SKU < all[j].SKU
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// page recorta un listado ya ordenado; limit <= 0 = sin límite.
func page(all []*entity.ProductWithStock, limit, offset int) []*entity.ProductWithStock {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
