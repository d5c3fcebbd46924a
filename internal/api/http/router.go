package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/http/handlers"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/auth"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Issues         *handlers.IssuesHandler
	Admin          *handlers.AdminHandler
	Notifications  *handlers.NotificationsHandler
	Reports        *handlers.ReportsHandler
	Live           *handlers.LiveHandler
	AuthMiddleware *auth.AuthMiddleware
	IssueLimiter   fiber.Handler
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Nil handlers leave their group unmounted.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	authed := cfg.AuthMiddleware.Handle
	staffOnly := auth.RequireStaff()

	if cfg.Issues != nil {
		limiter := cfg.IssueLimiter
		if limiter == nil {
			limiter = func(c *fiber.Ctx) error { return c.Next() }
		}
		api.Get("/issues", cfg.Issues.ListIssues)
		api.Get("/issues/:id", cfg.Issues.GetIssue)
		api.Post("/issues", authed, limiter, cfg.Issues.CreateIssue)
		api.Get("/me/issues", authed, cfg.Issues.ListMyIssues)
	}

	if cfg.Admin != nil {
		admin := api.Group("/admin", authed, staffOnly)
		admin.Get("/issues", cfg.Admin.ListIssues)
		admin.Patch("/issues/:id", cfg.Admin.UpdateIssue)
		admin.Get("/staff", cfg.Admin.ListStaff)
		admin.Get("/analytics", cfg.Admin.Analytics)
		admin.Get("/stats", cfg.Admin.Stats)
	}

	if cfg.Notifications != nil {
		notifications := api.Group("/notifications", authed)
		notifications.Get("/", cfg.Notifications.List)
		notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
		notifications.Post("/:id/read", cfg.Notifications.MarkRead)
		notifications.Post("/:id/unread", cfg.Notifications.MarkUnread)
		notifications.Delete("/:id", cfg.Notifications.Delete)
	}

	if cfg.Reports != nil {
		api.Get("/reports/export", authed, staffOnly, cfg.Reports.Export)
	}

	if cfg.Live != nil {
		stream := cfg.AuthMiddleware.HandleStream
		live := api.Group("/live")
		live.Get("/stats", stream, staffOnly, cfg.Live.Stats)
		live.Get("/notifications", stream, cfg.Live.Notifications)
		live.Get("/issues/:id/updates", stream, cfg.Live.IssueUpdates)
	}
}
