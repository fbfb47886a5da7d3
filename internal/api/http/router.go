package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/akyravish/secure-user-service/internal/api/http/handlers"
	"github.com/akyravish/secure-user-service/internal/auth"
	"github.com/akyravish/secure-user-service/internal/observability"
	"github.com/akyravish/secure-user-service/internal/ratelimit"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
	LoginLimiter   *ratelimit.Limiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter.Handle, cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Post("/logout", cfg.Auth.Logout)

	users := v1.Group("/users")
	users.Post("/", cfg.Users.Create)

	me := users.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("/", cfg.Users.Me)
	me.Patch("/", cfg.Users.UpdateMe)
	me.Delete("/", cfg.Users.DeleteMe)
}
