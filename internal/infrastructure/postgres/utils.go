package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/retailflow-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isCheckViolation violación de CHECK (23514), p. ej. qty_on_hand >= 0.
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

// isForeignKeyViolation referencia a una fila inexistente (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isInvalidTextRepresentation valor mal formado para el tipo de la columna (22P02), p. ej. un UUID inválido.
func isInvalidTextRepresentation(err error) bool {
	return hasCode(err, "22P02")
}

// isLockContention deadlock detectado (40P01) o lock_timeout vencido (55P03).
// La transacción abortó sin cambios; reintentarla es seguro.
func isLockContention(err error) bool {
	return hasCode(err, "40P01") || hasCode(err, "55P03")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), "SQLSTATE "+code)
}

// infraErr envuelve un error del driver como ErrInfrastructure conservando la causa.
// La contención de bloqueos se reporta como ErrLockConflict (reintentable), no como caída.
func infraErr(op string, err error) error {
	if isLockContention(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrLockConflict, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrInfrastructure, op, err)
}

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
