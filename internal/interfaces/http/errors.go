package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

// writeError traduce un error de dominio a la respuesta HTTP correspondiente.
// Los errores no reconocidos responden 500 INTERNAL.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", verr.Msg)
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrPromotionInactive):
		return fail(c, fiber.StatusBadRequest, "PROMOTION_INACTIVE", "la promoción no está vigente")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "DUPLICATE", "el email ya está registrado")
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", "el registro ya existe")
	case errors.Is(err, domain.ErrInvalidTransition):
		return fail(c, fiber.StatusConflict, "CONFLICT", "transición de estado no permitida")
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrOTPInvalid):
		return fail(c, fiber.StatusUnauthorized, "OTP_INVALID", "código inválido o expirado")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado")
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrReaderUnavailable):
		return fail(c, fiber.StatusBadGateway, "READER_ERROR", err.Error())
	case errors.Is(err, domain.ErrStorageDisabled):
		return fail(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "almacenamiento de imágenes no configurado")
	}
	logger.FromContext(c.UserContext(), nil).Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
}
