// Package server contains the HTML pages and JSON API of the board.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"jokerboard/internal/bootstrap"
	"jokerboard/internal/config"
	"jokerboard/internal/middleware"
	"jokerboard/internal/models"
	"jokerboard/internal/render"
	"jokerboard/internal/repository"
	"jokerboard/internal/store"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          store.Store
	ids            *repository.IDGenerator
	views          *render.Renderer
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	closeFn        func() error
}

// NewServer opens the configured store and creates a server on top of it.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(ctx, cfg)
	if err != nil {
		return nil, err
	}
	srv, err := NewServerWithDeps(cfg, rt.Store)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	srv.closeFn = rt.Close
	return srv, nil
}

// NewServerWithDeps creates a Server on an already opened store.
// Use this in tests or when a bootstrap layer owns the backend.
func NewServerWithDeps(cfg *config.Config, st store.Store) (*Server, error) {
	views, err := render.New()
	if err != nil {
		return nil, err
	}
	return &Server{
		config:         cfg,
		store:          st,
		ids:            repository.NewIDGenerator(),
		views:          views,
		promMiddleware: middleware.InitMetrics("jokerboard"),
	}, nil
}

// App builds the Fiber app with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName:      "Joker Board",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so that rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8080"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || !s.rateLimited()
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	app.Use(middleware.Profile(s.config.ProfileCookie, s.config.IsProduction()))
	app.Use(s.withScope())
}

// rateLimited is false for dev and test runs so local workflows are not throttled.
func (s *Server) rateLimited() bool {
	switch s.config.Env {
	case "test", "development", "":
		return false
	}
	return true
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public pages
	app.Get("/", s.IndexPage)
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.LoginSubmit)
	app.Get("/register", s.RegisterPage)
	app.Post("/register", s.RegisterSubmit)
	app.Post("/logout", s.LogoutSubmit)
	app.Post("/theme", s.ToggleTheme)

	// Pages that need a session provision the guest account.
	auth := s.SessionRequired()
	app.Get("/board", auth, s.BoardPage)
	app.Get("/write", auth, s.WritePage)
	app.Post("/posts", auth, s.CreatePostSubmit)
	app.Get("/post", auth, s.PostPage)
	app.Post("/posts/:id/delete", auth, s.DeletePostSubmit)
	app.Get("/dashboard", auth, s.DashboardPage)

	api := app.Group("/api")
	api.Get("/session", s.GetSession)
	api.Put("/theme", s.SetTheme)

	authAPI := api.Group("/auth")
	authAPI.Post("/login", s.Login)
	authAPI.Post("/register", s.Register)
	authAPI.Post("/logout", s.Logout)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", s.CreatePost)
	posts.Delete("/:id", s.DeletePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the store backend answers.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := store.Ping(ctx, s.store); err != nil {
		storeStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": storeStatus,
		"checks": fiber.Map{
			"store":  storeStatus,
			"driver": s.config.StoreDriver,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.closeFn != nil {
		if err := s.closeFn(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
