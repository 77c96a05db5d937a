package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/domain"
	"github.com/jhoicas/retailflow-api/pkg/metrics"
)

// localError guarda el error del handler para que el logger de requests lo registre.
const localError = "handler_error"

// errorStatus traduce los errores de dominio a status y código HTTP.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrStockRace):
		return fiber.StatusConflict, "STOCK_RACE"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrLockConflict):
		return fiber.StatusConflict, "LOCK_CONFLICT"
	case errors.Is(err, domain.ErrInvariantViolation):
		return fiber.StatusUnprocessableEntity, "INVARIANT_VIOLATION"
	case errors.Is(err, domain.ErrInfrastructure):
		return fiber.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con dto.ErrorResponse. Los detalles de infraestructura no salen al cliente.
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(localError, err)
	status, code := errorStatus(err)
	msg := err.Error()
	switch status {
	case fiber.StatusServiceUnavailable:
		msg = "servicio no disponible, intente más tarde"
	case fiber.StatusInternalServerError:
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// outcomeFor etiqueta de métricas para un error del motor.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	case errors.Is(err, domain.ErrStockRace):
		return metrics.OutcomeStockRace
	case errors.Is(err, domain.ErrInvariantViolation):
		return metrics.OutcomeInvariant
	case errors.Is(err, domain.ErrLockConflict):
		return metrics.OutcomeLockConflict
	default:
		return metrics.OutcomeError
	}
}

// ErrorHandler manejador global de Fiber para errores no capturados por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return writeError(c, err)
}
