package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fbay/internal/auctionerrors"
	"fbay/pkg/logger"
)

// Response envelope statuses.
const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

func respondOK(c *fiber.Ctx, status int, value any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": StatusOK,
		"value":  value,
	})
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind auctionerrors.Kind) int {
	switch kind {
	case auctionerrors.KindValidation:
		return fiber.StatusBadRequest
	case auctionerrors.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case auctionerrors.KindForbidden:
		return fiber.StatusForbidden
	case auctionerrors.KindNotFound:
		return fiber.StatusNotFound
	case auctionerrors.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the failure envelope for err. Field errors are listed
// under "errors" with message as the summary; other errors report their own
// text, except internal ones which are logged and hidden behind message.
func respondError(c *fiber.Ctx, message string, err error) error {
	kind := auctionerrors.KindOf(err)
	status := statusFor(kind)
	body := fiber.Map{"status": StatusFailed}

	switch fields := auctionerrors.Fields(err); {
	case fields != nil:
		body["message"] = message
		body["errors"] = fields
	case status == fiber.StatusInternalServerError:
		logger.Error(message, map[string]any{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		})
		body["message"] = message
	default:
		body["message"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  StatusFailed,
		"message": "Invalid request body",
		"errors":  fiber.Map{"body": err.Error()},
	})
}

// ErrorHandler renders errors that escape the route handlers, such as
// unknown routes, in the failure envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		logger.Error("unhandled request error", map[string]any{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		})
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  StatusFailed,
		"message": err.Error(),
	})
}
