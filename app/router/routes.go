// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/playvault/game-store/app/dto"
	"github.com/playvault/game-store/app/handlers"
	"github.com/playvault/game-store/app/middleware"
	"github.com/playvault/game-store/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app              *fiber.App
	authHandler      *handlers.AuthHandler
	gameHandler      *handlers.GameHandler
	orderHandler     *handlers.OrderHandler
	promotionHandler *handlers.PromotionHandler
	userHandler      *handlers.UserHandler
	authMiddleware   *middleware.AuthMiddleware
	allowedOrigins   []string
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	authHandler *handlers.AuthHandler,
	gameHandler *handlers.GameHandler,
	orderHandler *handlers.OrderHandler,
	promotionHandler *handlers.PromotionHandler,
	userHandler *handlers.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Game Store API",
		ServerHeader: "game-store",
		ErrorHandler: errorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:              app,
		authHandler:      authHandler,
		gameHandler:      gameHandler,
		orderHandler:     orderHandler,
		promotionHandler: promotionHandler,
		userHandler:      userHandler,
		authMiddleware:   authMiddleware,
		allowedOrigins:   allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	api := r.app.Group("/api/v1")

	// Health and metrics (no rate limiting)
	api.Get("/health", r.authHandler.Health)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Auth endpoints carry a much stricter limit; they are the brute-force surface
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/signup", r.authHandler.Signup)
	auth.Post("/login", r.authHandler.Login)
	auth.Post("/activate", r.authHandler.ActivationLogin)
	auth.Post("/new-password", r.authHandler.NewPasswordLogin)
	auth.Post("/forgot-password", r.authHandler.ForgotPassword)
	auth.Post("/request-reactivation", r.authHandler.RequestReactivation)
	auth.Post("/resend-activation-code", r.authHandler.ResendActivationCode)
	auth.Post("/resend-validation-code", r.authHandler.ResendValidationCode)

	// Public catalog
	api.Get("/games", r.gameHandler.List)
	api.Get("/games/:id", r.gameHandler.Get)

	// Authenticated endpoints
	authed := api.Group("", r.authMiddleware.Authenticate())
	authed.Get("/me", r.userHandler.Me)
	authed.Get("/orders", r.orderHandler.List)
	authed.Get("/orders/:id", r.orderHandler.Get)
	authed.Post("/orders", r.orderHandler.Add)

	// Admin endpoints
	admin := api.Group("/admin", r.authMiddleware.Authenticate(), r.authMiddleware.RequireAdmin())

	admin.Get("/users", r.userHandler.List)
	admin.Get("/users/:id", r.userHandler.Get)
	admin.Post("/users/:id/promote", r.userHandler.Promote)
	admin.Post("/users/:id/demote", r.userHandler.Demote)
	admin.Post("/users/:id/activate", r.userHandler.Activate)
	admin.Post("/users/:id/deactivate", r.userHandler.Deactivate)

	admin.Post("/games", r.gameHandler.Add)
	admin.Put("/games", r.gameHandler.Alter)
	admin.Post("/games/:id/activate", r.gameHandler.Activate)
	admin.Post("/games/:id/deactivate", r.gameHandler.Deactivate)

	admin.Put("/orders", r.orderHandler.Alter)
	admin.Post("/orders/:id/activate", r.orderHandler.Activate)
	admin.Post("/orders/:id/deactivate", r.orderHandler.Deactivate)
	admin.Get("/orders/export/csv", r.orderHandler.DownloadCSV)
	admin.Get("/orders/export/xlsx", r.orderHandler.DownloadExcel)

	admin.Get("/promotions", r.promotionHandler.List)
	admin.Get("/promotions/:id", r.promotionHandler.Get)
	admin.Post("/promotions", r.promotionHandler.Add)
	admin.Put("/promotions", r.promotionHandler.Alter)
	admin.Post("/promotions/:id/activate", r.promotionHandler.Activate)
	admin.Post("/promotions/:id/deactivate", r.promotionHandler.Deactivate)

	r.app.Use(r.notFoundHandler)
}

func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.allowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	r.app.Use(middleware.Metrics())

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health" || c.Path() == "/metrics"
		},
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "Endpoint not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "Request failed",
		Error: dto.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Details: err.Error(),
		},
	})
}

func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "req-" + hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(b)
}
