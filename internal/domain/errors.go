package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Se envuelven con %w para añadir contexto (ej. el producto afectado); comparar con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrStockRace          = errors.New("el stock cambió durante la transacción")
	ErrInvariantViolation = errors.New("el stock no puede quedar negativo")
	ErrLockConflict       = errors.New("conflicto de bloqueo, reintente la operación")
	ErrInfrastructure     = errors.New("error de infraestructura")
)
