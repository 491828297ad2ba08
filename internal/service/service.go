// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, calls repository
// methods to interact with the data and turns any gateway failure
// into an errs.StorageError.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/parking-api/internal/errs"
	"github.com/deppfellow/parking-api/internal/server"
	"github.com/deppfellow/parking-api/internal/sqlerr"
)

// detach keeps ctx values (request logger, New Relic transaction) but drops
// its cancellation: a statement runs to completion even if the client has gone.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// storageFailure logs a gateway failure with its database classification
// and wraps it for the handler layer.
func storageFailure(ctx context.Context, s *server.Server, operation string, err error) error {
	storageErr := errs.NewStorageError(err)

	event := zerolog.Ctx(ctx).Error().
		Err(err).
		Str("operation", operation)

	classified := sqlerr.Classify(err)
	if classified != nil {
		event = event.
			Str("sql_code", string(classified.Code)).
			Str("database_code", classified.DatabaseCode).
			Str("error_code", classified.ErrorCode()).
			Str("hint", classified.Hint())
	}
	event.Msg("storage operation failed")

	if app := s.LoggerService.GetApplication(); app != nil {
		attrs := map[string]interface{}{
			"operation":     operation,
			"error_message": err.Error(),
		}
		if classified != nil {
			attrs["sql_code"] = string(classified.Code)
		}
		app.RecordCustomEvent("StorageError", attrs)
	}

	return storageErr
}
