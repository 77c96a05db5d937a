package inventory

import (
	"fmt"

	"github.com/jhoicas/retailflow-api/internal/domain"
)

// NextQuantity aplica un delta al stock actual (servicio de dominio).
// Devuelve ErrInvariantViolation si el resultado quedaría negativo.
func NextQuantity(current, delta int64) (int64, error) {
	next := current + delta
	if next < 0 {
		return current, fmt.Errorf("%w: actual %d, delta %d", domain.ErrInvariantViolation, current, delta)
	}
	return next, nil
}

// SeedQuantity cantidad con la que nace la fila de stock de un producto: max(0, inicial).
func SeedQuantity(initial int64) int64 {
	if initial < 0 {
		return 0
	}
	return initial
}
