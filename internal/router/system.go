package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/parking-api/internal/handler"
	"github.com/deppfellow/parking-api/internal/server"
)

// registerSystemRoutes registers endpoints that are not part of the
// parking resources: health, docs and metrics.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	if s.Config.Observability.HealthChecks.Enabled {
		r.GET("/status", h.Health.CheckHealth)
	}

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPIDocument)

	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
}
