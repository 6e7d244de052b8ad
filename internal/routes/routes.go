package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/handlers"
	"github.com/tungdtnguyen/messenger-backend/internal/middleware"
	"github.com/tungdtnguyen/messenger-backend/internal/realtime"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	hub *realtime.Hub,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	convHandler *handlers.ConversationHandler,
	participantHandler *handlers.ParticipantHandler,
	messageHandler *handlers.MessageHandler,
	friendHandler *handlers.FriendHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Reads are open: listing and detail GETs carry no session requirement,
	// per the access policy (only mutations are gated).
	api.Get("/users", userHandler.List)
	api.Get("/users/:id", userHandler.Get)
	api.Get("/users/:id/friends", friendHandler.ListByUser)
	api.Get("/conversations", convHandler.List)
	api.Get("/conversations/:id", convHandler.Get)
	api.Get("/conversations/:id/participants", participantHandler.ListByConversation)
	api.Get("/conversations/:id/messages", messageHandler.ListByConversation)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})

	auth := api.Group("/auth")
	auth.Use(authLimiter)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.GoogleSignIn)
	auth.Post("/password-reset/request", authHandler.RequestPasswordReset)
	auth.Post("/password-reset", authHandler.ResetPassword)
	auth.Post("/verify-email", authHandler.VerifyEmail)

	// Registration is public but shares the stricter auth limiter
	api.Post("/users", authLimiter, userHandler.Register)

	// Every route below requires a JWT backed by a live session row.
	// Applied per-group so the public routes above stay untouched.
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.SessionRequired(authService))

	protected.Post("/auth/logout", authHandler.Logout)

	protected.Put("/users/:id", userHandler.Update)

	protected.Post("/conversations", convHandler.Create)
	protected.Put("/conversations/:id", convHandler.Update)
	protected.Delete("/conversations/:id", convHandler.Delete)

	protected.Post("/participants", participantHandler.Add)
	protected.Put("/participants/:id", participantHandler.Promote)
	protected.Delete("/participants/:id", participantHandler.Remove)

	protected.Post("/messages", messageHandler.Create)
	protected.Put("/messages/:id", messageHandler.Update)
	protected.Delete("/messages/:id", messageHandler.Delete)

	protected.Post("/friends", friendHandler.Add)
	protected.Delete("/friends/:id", friendHandler.Delete)

	// WebSocket endpoint; identity arrives via the userId query param
	app.Use("/ws", realtime.UpgradeRequired)
	app.Get("/ws", realtime.Handler(hub))
}
