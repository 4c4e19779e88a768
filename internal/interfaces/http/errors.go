package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// errorWriter traduce errores de dominio a respuestas HTTP. Lo comparten todos los handlers.
type errorWriter struct {
	log *logger.Logger
}

func (w errorWriter) fail(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	evt := w.log.Warn()
	if status >= fiber.StatusInternalServerError {
		evt = w.log.Error()
	}
	evt.Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Str("code", body.Code).
		Msg("petición fallida")
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		invalid  *domain.InvalidInputError
		notFound *domain.NotFoundError
		stock    *domain.InsufficientStockError
		storage  *domain.StorageError
		inUse    *domain.InUseError
	)
	switch {
	case errors.As(err, &stock):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stock.Error(),
			Details: map[string]any{
				"item_id":   stock.ItemID,
				"available": stock.Available,
				"requested": stock.Requested,
			},
		}
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: invalid.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "el registro ya existe"}
	case errors.As(err, &inUse):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    "IN_USE",
			Message: inUse.Error(),
			Details: map[string]any{"resource": inUse.Resource, "id": inUse.ID},
		}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.As(err, &storage):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{
			Code:      "STORAGE_UNAVAILABLE",
			Message:   "almacenamiento no disponible, la operación no se aplicó",
			Retryable: storage.Retryable,
		}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
