package http

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/pkg/logger"
	pkgredis "github.com/jhoicas/retailflow-api/pkg/redis"
)

// HeaderIdempotencyKey llave opcional del cliente para reintentos seguros del checkout.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	headerReplayed    = "Idempotent-Replayed"
	maxIdempotencyKey = 255
	pendingTTL        = 2 * time.Minute
)

type idempotencyRecord struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	Body        string `json:"body,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency reserva la llave con SETNX antes de ejecutar el handler y guarda su respuesta.
//   - Sin header o sin store: pasa directo.
//   - Misma llave y mismo cuerpo: repite la respuesta guardada.
//   - Misma llave con otro cuerpo: 409 IDEMPOTENCY_MISMATCH.
//   - Llave reservada por una petición en curso: 409 IDEMPOTENCY_IN_PROGRESS.
//
// Solo se guardan respuestas 2xx y 4xx distintas de 409; el resto libera la llave para reintentar.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if store == nil || key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKey {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}

		ctx := c.Context()
		requestHash := hashBody(c.Body())
		redisKey := store.IdempotencyKey(buildScope(c), key)

		stored, err := store.Get(ctx, redisKey)
		if err != nil && !errors.Is(err, pkgredis.ErrNil) {
			return idempotencyUnavailable(c, err)
		}
		if stored != "" {
			record, decodeErr := decodeRecord(stored)
			if decodeErr != nil {
				return idempotencyUnavailable(c, decodeErr)
			}
			return replay(c, record, requestHash)
		}

		pending, _ := json.Marshal(idempotencyRecord{Pending: true, RequestHash: requestHash})
		reserved, err := store.SetNX(ctx, redisKey, string(pending), pendingTTL)
		if err != nil {
			return idempotencyUnavailable(c, err)
		}
		if !reserved {
			// Otra petición ganó la reserva entre el GET y el SETNX.
			if again, getErr := store.Get(ctx, redisKey); getErr == nil && again != "" {
				if record, decodeErr := decodeRecord(again); decodeErr == nil {
					return replay(c, record, requestHash)
				}
			}
			return inProgress(c)
		}

		if err := c.Next(); err != nil {
			release(c, store, redisKey, log)
			return err
		}

		status := c.Response().StatusCode()
		if !cacheable(status) {
			release(c, store, redisKey, log)
			return nil
		}
		record := idempotencyRecord{
			Status:      status,
			Body:        base64.StdEncoding.EncodeToString(c.Response().Body()),
			ContentType: string(c.Response().Header.ContentType()),
			RequestHash: requestHash,
		}
		payload, err := json.Marshal(record)
		if err != nil {
			release(c, store, redisKey, log)
			return nil
		}
		if err := store.Set(ctx, redisKey, string(payload), ttl); err != nil && log != nil {
			log.Error().Err(err).Str("key", redisKey).Msg("guardar respuesta idempotente")
		}
		return nil
	}
}

func replay(c *fiber.Ctx, record *idempotencyRecord, requestHash string) error {
	if record.RequestHash != requestHash {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_MISMATCH", Message: "Idempotency-Key reutilizada con otro cuerpo"})
	}
	if record.Pending {
		return inProgress(c)
	}
	body, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		return idempotencyUnavailable(c, err)
	}
	if record.ContentType != "" {
		c.Set(fiber.HeaderContentType, record.ContentType)
	}
	c.Set(headerReplayed, "true")
	return c.Status(record.Status).Send(body)
}

func inProgress(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "hay una petición en curso con esta Idempotency-Key"})
}

func idempotencyUnavailable(c *fiber.Ctx, err error) error {
	c.Locals(localError, err)
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "no se pudo verificar la idempotencia, intente más tarde"})
}

func release(c *fiber.Ctx, store pkgredis.IdempotencyStore, key string, log *logger.Logger) {
	if err := store.Del(c.Context(), key); err != nil && log != nil {
		log.Error().Err(err).Str("key", key).Msg("liberar llave idempotente")
	}
}

func cacheable(status int) bool {
	if status == fiber.StatusConflict {
		return false
	}
	return status >= 200 && status < 500
}

func buildScope(c *fiber.Ctx) string {
	return strings.Join([]string{GetUserID(c), c.Method(), c.Path()}, "|")
}

func decodeRecord(payload string) (*idempotencyRecord, error) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}
