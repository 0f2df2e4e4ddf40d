// Package app assembles the web application from its parts.
package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"microblog/internal/config"
	"microblog/internal/handlers"
	"microblog/internal/middleware"
	"microblog/internal/repositories"
	"microblog/internal/services"
	"microblog/internal/views"
)

// Options holds the optional collaborators of the application.
type Options struct {
	// Tokens stores revoked sessions; nil keeps them in the database.
	Tokens repositories.TokenRepository
	// Publisher receives domain events; nil disables them.
	Publisher services.EventPublisher
	// AccessLog enables per-request logging.
	AccessLog bool
}

// New wires repositories, services and handlers into a Fiber app.
func New(cfg *config.Config, db *gorm.DB, logger *zap.Logger, opts Options) (*fiber.App, error) {
	engine, err := views.NewEngine(handlers.TemplateFuncs())
	if err != nil {
		return nil, err
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	micropostRepo := repositories.NewGORMMicropostRepository(db)
	tokenRepo := opts.Tokens
	if tokenRepo == nil {
		tokenRepo = repositories.NewGORMTokenRepository(db)
	}

	// --- Initialize Services ---
	userService := services.NewUserService(userRepo, opts.Publisher, cfg, logger)
	micropostService := services.NewMicropostService(micropostRepo, opts.Publisher, cfg, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, cfg, logger)

	// --- Initialize Handlers ---
	pageHandler := handlers.NewPageHandler(micropostService, cfg, logger)
	userHandler := handlers.NewUserHandler(userService, micropostService, authService, cfg, logger)
	sessionHandler := handlers.NewSessionHandler(authService, cfg, logger)
	micropostHandler := handlers.NewMicropostHandler(micropostService, pageHandler, cfg, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.SiteTitle,
		Views:        engine,
		ViewsLayout:  views.Layout,
		ErrorHandler: handlers.NewErrorHandler(cfg.SiteTitle, logger),
	})

	// --- Middleware ---
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}

	// --- Health Check Endpoint ---
	app.Get("/health", healthCheck(db, opts.Publisher != nil))

	app.Use(middleware.LoadCurrentUser(authService, logger))

	// --- Routes ---
	pageHandler.RegisterRoutes(app)
	userHandler.RegisterRoutes(app)
	sessionHandler.RegisterRoutes(app)
	micropostHandler.RegisterRoutes(app)

	return app, nil
}

func healthCheck(db *gorm.DB, events bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		database := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = fiber.StatusServiceUnavailable
			database = "down"
		}
		health := "healthy"
		if status != fiber.StatusOK {
			health = "unhealthy"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   events,
		})
	}
}
