package middleware

import (
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"

	"fbay/internal/auctionerrors"
	"fbay/pkg/logger"
)

// Fiber locals set for authenticated requests.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, auctionerrors.ErrUnauthenticated.Error())
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			logger.Info("JWT validation failed", map[string]any{"path": c.Path(), "error": err.Error()})
			return unauthorized(c, "Invalid or expired token")
		}

		// Store claims in Fiber context for subsequent handlers
		setClaims(c, claims)
		return c.Next()
	}
}

// AuthOptional sets the user locals when a valid bearer token is present
// and lets anonymous requests through otherwise.
func AuthOptional(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
			if claims, err := validator.ValidateToken(tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *fiber.Ctx, claims jwt.MapClaims) {
	if id, ok := claims["user_id"].(string); ok {
		c.Locals(LocalUserID, id)
	}
	if email, ok := claims["email"].(string); ok {
		c.Locals(LocalEmail, email)
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  "FAILED",
		"message": message,
	})
}
