package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"careerlens/resume-assistant/internal/apperr"
)

// respondError logs err with context and writes the uniform error payload.
// The wrapped error chain is only exposed as details in development mode.
func respondError(c *fiber.Ctx, devMode bool, err error) error {
	log.Printf("❌ %s %s failed: %v\n", c.Method(), c.Path(), err)

	payload := fiber.Map{"error": apperr.Message(err)}
	if devMode {
		payload["details"] = err.Error()
	}

	return c.Status(apperr.HTTPStatus(err)).JSON(payload)
}

// respondEnvelopeError is the {success:false, ...} variant used by the
// JSON-body cover-letter route.
func respondEnvelopeError(c *fiber.Ctx, devMode bool, err error) error {
	log.Printf("❌ %s %s failed: %v\n", c.Method(), c.Path(), err)

	payload := fiber.Map{
		"success": false,
		"error":   apperr.Message(err),
	}
	if devMode {
		payload["details"] = err.Error()
	}

	return c.Status(apperr.HTTPStatus(err)).JSON(payload)
}
