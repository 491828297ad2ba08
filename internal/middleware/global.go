package middleware

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/parking-api/internal/errs"
	"github.com/deppfellow/parking-api/internal/server"
)

// Values of the CORS headers set on every response.
const (
	CORSAllowHeaders = "Origin, X-Requested-With, Content-Type, Accept"
	CORSAllowMethods = "GET, POST, PUT, DELETE"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS sets the CORS headers on every response, including errors and
// requests that carry no Origin header. Preflight requests are answered
// with 204 without reaching a handler.
//
// With "*" among the allowed origins every origin gets "*". Otherwise a
// listed Origin is echoed back and other origins get no allow-origin header.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	origins := global.server.Config.Server.CORSAllowedOrigins
	wildcard := slices.Contains(origins, "*")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()

			if wildcard {
				header.Set(echo.HeaderAccessControlAllowOrigin, "*")
			} else {
				header.Add(echo.HeaderVary, echo.HeaderOrigin)
				if origin := c.Request().Header.Get(echo.HeaderOrigin); slices.Contains(origins, origin) {
					header.Set(echo.HeaderAccessControlAllowOrigin, origin)
				}
			}
			header.Set(echo.HeaderAccessControlAllowHeaders, CORSAllowHeaders)
			header.Set(echo.HeaderAccessControlAllowMethods, CORSAllowMethods)

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// ResponseStatus is the status GlobalErrorHandler answers err with.
//
// Unknown routes and unsupported methods are 404. Everything else that
// reaches the error handler (malformed bodies, panics) is a 500.
func ResponseStatus(err error) int {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound || echoErr.Code == http.StatusMethodNotAllowed {
			return http.StatusNotFound
		}
	}

	return http.StatusInternalServerError
}

// errorMessage prefers echo's client-facing message over its internal error.
func errorMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return fmt.Sprint(echoErr.Message)
	}
	return err.Error()
}

// RequestLogger returns Echo's request logger middleware with a zerolog
// LogValuesFunc producing one "API" line per request, level by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the global error handler has not
			// written the response yet, so v.Status is still 200.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = ResponseStatus(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns handler panics into errors for the global error handler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll:   true,
		DisablePrintStack: true,
	})
}

// Secure adds standard security-related headers.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler answers every error a handler or middleware returned.
//
// Resource handlers answer their own storage failures, so what arrives here
// is either routing (404 JSON HTTPError) or a request that never reached a
// handler, answered as 500 text "Something broke! <message>".
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	logger := GetLogger(c)
	status := ResponseStatus(err)

	if status == http.StatusNotFound {
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			httpErr = errs.NewNotFoundError("Route not found", false, nil)
		}

		logger.Warn().
			Err(err).
			Int("status", httpErr.Status).
			Str("error_code", httpErr.Code).
			Msg(httpErr.Message)

		if !c.Response().Committed {
			_ = c.JSON(httpErr.Status, httpErr)
		}
		return
	}

	message := errorMessage(err)

	logger.Error().Stack().
		Err(err).
		Int("status", status).
		Str("error_code", errs.MakeUpperCaseWithUnderscores(http.StatusText(status))).
		Msg(message)

	if !c.Response().Committed {
		_ = c.String(status, "Something broke! "+strings.TrimSpace(message))
	}
}
