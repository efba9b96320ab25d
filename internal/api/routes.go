package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/api/handlers"
	"github.com/youtools/youtools-backend/internal/api/middleware"
	"github.com/youtools/youtools-backend/internal/auth"
	"github.com/youtools/youtools-backend/internal/config"
	"github.com/youtools/youtools-backend/internal/services"
)

// NewApp creates the Fiber app with the shared middleware stack.
func NewApp(cfg config.ServerConfig, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "YouTools Backend",
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(cors.New(cors.Config{
		// The summarize preflight has its own fixed answer.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions && c.Path() == "/summarize"
		},
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services, resolver *auth.Resolver, cfg *config.Config) {
	summaryHandler := handlers.NewSummaryHandler(svc.Summary)

	app.Options("/summarize", summaryHandler.Preflight)
	app.Get("/summarize",
		middleware.Identity(resolver, cfg.Auth.CookieName),
		middleware.SummarizeRateLimit(cfg.Server.SummarizeRateLimit),
		summaryHandler.Summarize,
	)

	app.Get("/timestamps", handlers.TimestampsHandler(svc.Transcripts))
	app.Get("/videos", handlers.VideosHandler(svc.Videos))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "healthy",
			"service": "youtools-backend",
		}
		if svc.GenerationStats != nil {
			body["generation"] = svc.GenerationStats.Stats()
		}
		return c.JSON(body)
	})
}
