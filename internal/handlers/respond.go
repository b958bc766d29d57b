package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"filesmanager/internal/apperr"
)

// respondError maps a domain error to its HTTP status and wire
// message. Anything outside the taxonomy is a store failure: it is
// logged and reported as a plain 500 without internal detail.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return c.Status(ae.HTTPStatus()).JSON(fiber.Map{"error": ae.Message})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
