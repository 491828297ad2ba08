package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/deppfellow/parking-api/internal/config"
)

// SQLite is the Gateway backed by an embedded SQLite file.
//
// The file must already contain the zones and spaces tables.
type SQLite struct {
	DB  *sql.DB
	log *zerolog.Logger
}

// NewSQLite opens the SQLite database at cfg.Database.Path.
func NewSQLite(cfg *config.Config, logger *zerolog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", sqliteDSN(cfg.Database.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if cfg.Database.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second)
	}

	return &SQLite{DB: db, log: logger}, nil
}

// sqliteDSN enables foreign keys and a busy timeout on every connection.
func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// Execute runs stmt and collects every row. Text columns come back as
// strings rather than byte slices so they encode as JSON strings.
func (db *SQLite) Execute(ctx context.Context, stmt Statement) ([]Row, error) {
	rows, err := db.DB.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.WithStack(err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, NewRow(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return result, nil
}

func (db *SQLite) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

func (db *SQLite) Driver() string {
	return config.DriverSQLite
}

func (db *SQLite) Close() error {
	db.log.Info().Msg("closing sqlite database")
	return db.DB.Close()
}
