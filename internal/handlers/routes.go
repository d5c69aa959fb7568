package handlers

import "github.com/gofiber/fiber/v2"

// Guards are the authentication middlewares routes are registered with.
type Guards struct {
	// Required rejects requests without a valid token.
	Required fiber.Handler
	// Optional identifies the caller when a token is present.
	Optional fiber.Handler
}
