// Package memory es un adaptador de almacenamiento en proceso con la misma semántica
// transaccional que PostgreSQL en READ COMMITTED: cada transacción ve lo confirmado más sus
// propias escrituras, las escrituras se aplican en Commit y los bloqueos de fila de stock
// se mantienen hasta Commit o Rollback.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
)

type movementRow struct {
	seq int64
	m   entity.InventoryMovement
}

// Store estado confirmado. Todo acceso pasa por una transacción (explícita o autocommit).
type Store struct {
	mu sync.Mutex

	products  map[string]entity.Product
	skuIndex  map[string]string
	stock     map[string]entity.StockLevel
	movements []movementRow
	customers map[string]entity.Customer
	orders    map[string]entity.Order
	items     map[string][]entity.OrderItem
	payments  map[string][]entity.Payment

	seq int64

	// bloqueos de fila de stock y grafo de espera (tx -> producto que espera).
	locks   map[string]*rowLock
	waiting map[*tx]string
}

// rowLock fila de stock tomada; free se cierra al liberarla.
type rowLock struct {
	owner *tx
	free  chan struct{}
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		skuIndex:  make(map[string]string),
		stock:     make(map[string]entity.StockLevel),
		customers: make(map[string]entity.Customer),
		orders:    make(map[string]entity.Order),
		items:     make(map[string][]entity.OrderItem),
		payments:  make(map[string][]entity.Payment),
		locks:     make(map[string]*rowLock),
		waiting:   make(map[*tx]string),
	}
}

// Ping siempre disponible; existe para el health check.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// tx escrituras pendientes de una transacción y los bloqueos de fila que tiene tomados.
type tx struct {
	s    *Store
	held map[string]struct{}
	done bool

	products  map[string]entity.Product
	stock     map[string]entity.StockLevel
	movements []entity.InventoryMovement
	customers map[string]entity.Customer
	orders    map[string]entity.Order
	items     []entity.OrderItem
	payments  []entity.Payment
}

func (s *Store) begin() *tx {
	return &tx{
		s:         s,
		held:      make(map[string]struct{}),
		products:  make(map[string]entity.Product),
		stock:     make(map[string]entity.StockLevel),
		customers: make(map[string]entity.Customer),
		orders:    make(map[string]entity.Order),
	}
}

// lock toma el bloqueo de la fila de stock; espera si otra transacción lo tiene.
// Si esperar cerraría un ciclo en el grafo de espera la transacción no espera y
// recibe ErrLockConflict, como la detección de deadlocks de PostgreSQL.
func (t *tx) lock(ctx context.Context, productID string) error {
	s := t.s
	for {
		s.mu.Lock()
		if _, ok := t.held[productID]; ok {
			s.mu.Unlock()
			return nil
		}
		l, taken := s.locks[productID]
		if !taken {
			s.locks[productID] = &rowLock{owner: t, free: make(chan struct{})}
			t.held[productID] = struct{}{}
			delete(s.waiting, t)
			s.mu.Unlock()
			return nil
		}
		if s.waitCycleLocked(t, l.owner) {
			delete(s.waiting, t)
			s.mu.Unlock()
			return fmt.Errorf("%w: deadlock esperando stock %s", domain.ErrLockConflict, productID)
		}
		s.waiting[t] = productID
		free := l.free
		s.mu.Unlock()

		select {
		case <-free:
		case <-ctx.Done():
			s.mu.Lock()
			delete(s.waiting, t)
			s.mu.Unlock()
			return fmt.Errorf("%w: esperando bloqueo de stock %s: %w", domain.ErrInfrastructure, productID, ctx.Err())
		}
	}
}

// waitCycleLocked recorre la cadena owner -> fila que espera -> su owner; true si vuelve a t.
func (s *Store) waitCycleLocked(t, owner *tx) bool {
	for o := owner; o != nil; {
		if o == t {
			return true
		}
		productID, ok := s.waiting[o]
		if !ok {
			return false
		}
		l, ok := s.locks[productID]
		if !ok {
			return false
		}
		o = l.owner
	}
	return false
}

// releaseLocked suelta las filas de t y despierta a quien espera. Llamar con s.mu tomado.
func (t *tx) releaseLocked() {
	for id := range t.held {
		if l, ok := t.s.locks[id]; ok && l.owner == t {
			close(l.free)
			delete(t.s.locks, id)
		}
		delete(t.held, id)
	}
	delete(t.s.waiting, t)
}

// commit aplica las escrituras pendientes. Un SKU tomado por otra transacción confirmada
// antes hace fallar todo el commit con ErrDuplicate (equivale al UNIQUE de la tabla).
func (t *tx) commit() error {
	if t.done {
		return nil
	}
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t.done = true
	defer t.releaseLocked()

	for id, p := range t.products {
		if _, ok := s.products[id]; ok {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, id)
		}
		if other, ok := s.skuIndex[p.SKU]; ok && other != id {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
	}
	for id, p := range t.products {
		s.products[id] = p
		s.skuIndex[p.SKU] = id
	}
	for id, st := range t.stock {
		s.stock[id] = st
	}
	for _, m := range t.movements {
		s.seq++
		s.movements = append(s.movements, movementRow{seq: s.seq, m: m})
	}
	for id, c := range t.customers {
		s.customers[id] = c
	}
	for id, o := range t.orders {
		s.orders[id] = o
	}
	for _, it := range t.items {
		s.items[it.OrderID] = append(s.items[it.OrderID], it)
	}
	for _, p := range t.payments {
		s.payments[p.OrderID] = append(s.payments[p.OrderID], p)
	}
	return nil
}

func (t *tx) rollback() {
	if t.done {
		return
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.done = true
	t.releaseLocked()
}

// lecturas: lo propio pendiente primero, luego lo confirmado. Llamar con s.mu tomado.

func (t *tx) productLocked(id string) (entity.Product, bool) {
	if p, ok := t.products[id]; ok {
		return p, true
	}
	p, ok := t.s.products[id]
	return p, ok
}

func (t *tx) stockLocked(productID string) (entity.StockLevel, bool) {
	if st, ok := t.stock[productID]; ok {
		return st, true
	}
	st, ok := t.s.stock[productID]
	return st, ok
}

func (t *tx) customerLocked(id string) (entity.Customer, bool) {
	if c, ok := t.customers[id]; ok {
		return c, true
	}
	c, ok := t.s.customers[id]
	return c, ok
}

func (t *tx) orderLocked(id string) (entity.Order, bool) {
	if o, ok := t.orders[id]; ok {
		return o, true
	}
	o, ok := t.s.orders[id]
	return o, ok
}

// scope ejecuta fn en la transacción del repo o, si no hay, en una transacción autocommit.
type scope struct {
	s *Store
	t *tx
}

func (sc scope) do(fn func(t *tx) error) error {
	if sc.t != nil {
		return fn(sc.t)
	}
	t := sc.s.begin()
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return t.commit()
}
