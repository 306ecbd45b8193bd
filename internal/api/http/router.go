package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/parentchild/account-service/internal/api/http/handlers"
	"github.com/parentchild/account-service/internal/auth"
	"github.com/parentchild/account-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Parents        *handlers.ParentHandler
	Children       *handlers.ChildHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/login/", cfg.Auth.Login)
	api.Post("/refresh/", cfg.Auth.Refresh)
	api.Post("/activate/", cfg.Auth.Activate)
	api.Post("/activate/resend/", cfg.Auth.ResendActivation)

	parent := api.Group("/parent")
	parent.Post("/register/", cfg.Parents.Register)
	parent.Get("/profile/", cfg.AuthMiddleware.Handle, cfg.Parents.Profile)
	parent.Patch("/profile/", cfg.AuthMiddleware.Handle, cfg.Parents.UpdateProfile)

	child := api.Group("/child", cfg.AuthMiddleware.Handle, auth.RequireParent())
	child.Get("/", cfg.Children.List)
	child.Post("/", cfg.Children.Add)
	child.Patch("/", cfg.Children.Update)
}
