package http

import (
	"errors"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/pkg/ai"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler maps errors returned by handlers to status codes. 5xx bodies
// are generic and never echo resume content.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		ve *model.ValidationError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": ve.Problems})
	case errors.Is(err, ai.ErrEmptyText):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, domain.ErrRender):
		log.Error().Err(err).Str("path", c.Path()).Msg("http: render failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to render resume"})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("http: internal error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
