package app

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fbay/internal/handlers"
	"fbay/internal/middleware"
)

// NewServer builds the Fiber app with every route registered.
func NewServer(c *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "fbay",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})

	// --- Middleware ---
	app.Use(fiberlogger.New()) // Request logger

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": databaseStatus(ctx.UserContext(), c),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static(handlers.MediaPrefix, c.Config.MediaDir)

	guards := handlers.Guards{
		Required: middleware.AuthRequired(c.AuthService),
		Optional: middleware.AuthOptional(c.AuthService),
	}
	media := handlers.NewMediaStore(c.Config.MediaDir)

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewAuthHandler(c.AuthService).RegisterRoutes(api)
	handlers.NewUserHandler(c.UserService, media).RegisterRoutes(api, guards)
	handlers.NewItemHandler(c.ItemService, c.BidService, media, c.Clock).RegisterRoutes(api, guards)
	handlers.NewQueryHandler(c.QueryService).RegisterRoutes(api, guards)

	return app
}

func databaseStatus(ctx context.Context, c *Container) string {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return "unavailable"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return "unreachable"
	}
	return "connected"
}
