package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/parking-api/internal/middleware"
	"github.com/deppfellow/parking-api/internal/server"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	defaultCheckTimeout = 5 * time.Second
)

// HealthHandler serves /status for monitors and load balancers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthReport is the /status body.
type HealthReport struct {
	Status      string                     `json:"status"`
	Timestamp   time.Time                  `json:"timestamp"`
	Environment string                     `json:"environment"`
	Checks      map[string]DependencyCheck `json:"checks"`
}

// DependencyCheck is the outcome of probing one dependency.
type DependencyCheck struct {
	Status       string `json:"status"`
	Driver       string `json:"driver,omitempty"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

func (c DependencyCheck) healthy() bool {
	return c.Status == statusHealthy
}

// CheckHealth answers 200 when every dependency is reachable, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	report := HealthReport{
		Status:      statusHealthy,
		Timestamp:   start.UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks: map[string]DependencyCheck{
			"database": h.checkDatabase(c.Request().Context(), &logger),
		},
	}

	for _, check := range report.Checks {
		if !check.healthy() {
			report.Status = statusUnhealthy
		}
	}

	if report.Status != statusHealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, report)
	}

	return c.JSON(http.StatusOK, report)
}

func (h *HealthHandler) checkDatabase(ctx context.Context, logger *zerolog.Logger) DependencyCheck {
	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := h.server.DB.Ping(ctx)
	elapsed := time.Since(start)

	check := DependencyCheck{
		Status:       statusHealthy,
		Driver:       h.server.DB.Driver(),
		ResponseTime: elapsed.String(),
	}

	if err == nil {
		logger.Debug().Dur("response_time", elapsed).Msg("database health check passed")
		return check
	}

	check.Status = statusUnhealthy
	check.Error = err.Error()

	logger.Error().Err(err).Dur("response_time", elapsed).Msg("database health check failed")

	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":       "database",
			"driver":           check.Driver,
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return check
}
