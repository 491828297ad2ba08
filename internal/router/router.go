// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/parking-api/internal/handler"
	"github.com/deppfellow/parking-api/internal/middleware"
	"github.com/deppfellow/parking-api/internal/server"
)

// NewRouter builds the Echo instance with the global middleware chain and
// every route registered.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id feeds tracing and the context logger,
	// CORS headers must be set before any handler or error response,
	// and Recover sits last so panics still pass through logging.
	router.Use(
		middleware.RequestID(),
		middlewares.Global.CORS(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)
	registerZoneRoutes(router, h.Zones)
	registerSpaceRoutes(router, h.Spaces)

	return router
}
