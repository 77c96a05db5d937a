package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	scope
}

// NewCustomerRepository repo fuera de transacción.
func NewCustomerRepository(s *Store) *CustomerRepo {
	return &CustomerRepo{scope{s: s}}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if _, ok := t.customerLocked(c.ID); ok {
			return fmt.Errorf("%w: cliente %s", domain.ErrDuplicate, c.ID)
		}
		t.customers[c.ID] = *c
		return nil
	})
}

// GetByID nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.do(func(t *tx) error {
		t.s.mu.Lock()
		defer t.s.mu.Unlock()
		if c, ok := t.customerLocked(id); ok {
			out = &c
		}
		return nil
	})
	return out, err
}
