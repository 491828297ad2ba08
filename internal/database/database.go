// Package database contains the Query Gateway: the single capability the
// resource handlers use to run a statement and get rows back.
//
// It handles:
//   - the Gateway/Conn contracts and the Statement/Row value types
//   - a PostgreSQL gateway on a pgx connection pool (pgxpool)
//   - an embedded SQLite gateway (modernc.org/sqlite) for local runs and tests
//   - wiring query tracing/logging (pgx tracelog) and New Relic (nrpgx5)
//   - slow statement logging and query metrics (Instrument)
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/parking-api/internal/config"
	loggerConfig "github.com/deppfellow/parking-api/internal/logger"
)

// Gateway executes one statement and returns the rows it produced.
// Statements that produce no rows return an empty slice.
type Gateway interface {
	Execute(ctx context.Context, stmt Statement) ([]Row, error)
}

// Conn is a Gateway that owns a live connection.
type Conn interface {
	Gateway
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
const DatabasePingTimeout = 10

// Open connects to the database selected by cfg.Database.Driver and pings it.
func Open(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (Conn, error) {
	var (
		conn Conn
		err  error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		conn, err = NewPostgres(cfg, logger, loggerService)
	case config.DriverSQLite:
		conn, err = NewSQLite(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	// Fail fast at startup if the database is down.
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", conn.Driver()).Msg("connected to the database")

	return conn, nil
}
