// Package server holds the process-wide dependencies of the parking API
// and owns their lifecycle: the Query Gateway connection, metrics, the
// logger pair and the listening http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/parking-api/internal/config"
	"github.com/deppfellow/parking-api/internal/database"
	loggerPkg "github.com/deppfellow/parking-api/internal/logger"
	"github.com/deppfellow/parking-api/internal/metrics"
)

// Server is shared by every layer. It is not itself an http.Handler; the
// router built on top of it is handed to SetupHTTPServer.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService // nil-safe; New Relic may be off

	// DB is instrumented: every statement is timed and slow ones are logged.
	DB      database.Conn
	Metrics *metrics.Metrics

	httpServer *http.Server
}

// New opens the database selected by cfg.Database.Driver and builds a Server
// around it. Nothing listens until Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	conn, err := database.Open(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return NewWithConn(cfg, logger, loggerService, conn), nil
}

// NewWithConn builds a Server around an already open connection.
// The connection is wrapped with slow statement logging and query metrics.
func NewWithConn(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, conn database.Conn) *Server {
	m := metrics.New()

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            database.Instrument(conn, logger, cfg.Observability.Logging.SlowQueryThreshold, m),
		Metrics:       m,
	}
}

// SetupHTTPServer binds handler to the configured port and timeouts.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving requests. SetupHTTPServer must run first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("driver", s.DB.Driver()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires, then closes the
// database and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	s.LoggerService.Shutdown(5 * time.Second)

	return nil
}
