package errs

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// StorageError is raised whenever a Query Gateway call fails.
//
// Connectivity failures, constraint violations and syntax errors are all
// indistinguishable at the handler layer: each one carries the driver's
// message and the stack trace text captured where the failure surfaced.
type StorageError struct {
	Message string
	Stack   string

	cause error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// NewStorageError wraps a gateway failure. A stack already attached with
// pkg/errors is reused; otherwise one is captured at this call site.
func NewStorageError(err error) *StorageError {
	if err == nil {
		return nil
	}

	var st stackTracer
	if !errors.As(err, &st) {
		st = errors.WithStack(err).(stackTracer)
	}

	return &StorageError{
		Message: driverMessage(err),
		Stack:   fmt.Sprintf("%+v", st),
		cause:   err,
	}
}

// driverMessage is the text the database itself reported. pgconn decorates
// Error() with severity and SQLSTATE, which clients never see.
func driverMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

func (e *StorageError) Error() string {
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.cause
}

// AsStorageError extracts a *StorageError from err's chain.
func AsStorageError(err error) (*StorageError, bool) {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr, true
	}
	return nil, false
}
