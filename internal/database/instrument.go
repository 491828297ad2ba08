package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// QueryObserver receives the duration of every executed statement.
type QueryObserver interface {
	ObserveQuery(driver, outcome string, elapsed time.Duration)
}

// Query outcomes reported to a QueryObserver.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Instrumented decorates a Conn with slow statement logging and metrics.
type Instrumented struct {
	Conn
	log           *zerolog.Logger
	slowThreshold time.Duration
	observer      QueryObserver
	now           func() time.Time
}

// Instrument wraps conn. A zero slowThreshold disables slow statement
// logging; a nil observer disables metrics.
func Instrument(conn Conn, logger *zerolog.Logger, slowThreshold time.Duration, observer QueryObserver) *Instrumented {
	return &Instrumented{
		Conn:          conn,
		log:           logger,
		slowThreshold: slowThreshold,
		observer:      observer,
		now:           time.Now,
	}
}

func (i *Instrumented) Execute(ctx context.Context, stmt Statement) ([]Row, error) {
	start := i.now()
	rows, err := i.Conn.Execute(ctx, stmt)
	elapsed := i.now().Sub(start)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	if i.observer != nil {
		i.observer.ObserveQuery(i.Conn.Driver(), outcome, elapsed)
	}

	if i.slowThreshold > 0 && elapsed > i.slowThreshold {
		i.log.Warn().
			Str("driver", i.Conn.Driver()).
			Str("statement", stmt.Literal()).
			Dur("duration", elapsed).
			Dur("threshold", i.slowThreshold).
			Msg("slow statement")
	}

	return rows, err
}
