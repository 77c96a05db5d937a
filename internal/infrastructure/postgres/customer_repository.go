package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, full_name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.FullName, nullIfEmpty(c.Email), nullIfEmpty(c.Phone), c.CreatedAt,
	)
	if err != nil {
		return infraErr("insert customer", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. nil si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	var email, phone *string
	err := r.q.QueryRow(ctx, `
		SELECT id, full_name, email, phone, created_at
		FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.FullName, &email, &phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
			return nil, nil
		}
		return nil, infraErr("get customer", err)
	}
	c.Email = derefString(email)
	c.Phone = derefString(phone)
	return &c, nil
}
