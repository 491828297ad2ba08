package errs

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageError_CapturesStack(t *testing.T) {
	cause := stderrors.New("Update failed")

	err := NewStorageError(cause)
	require.NotNil(t, err)

	assert.Equal(t, "Update failed", err.Message)
	assert.Equal(t, "Update failed", err.Error())
	assert.Contains(t, err.Stack, "Update failed")
	assert.Contains(t, err.Stack, "TestNewStorageError_CapturesStack")
	assert.ErrorIs(t, err, cause)
}

func TestNewStorageError_ReusesExistingStack(t *testing.T) {
	cause := errors.New("connection refused")

	err := NewStorageError(cause)
	assert.Equal(t, "connection refused", err.Message)
	assert.Equal(t, fmt.Sprintf("%+v", cause), err.Stack)
}

func TestNewStorageError_PostgresMessage(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "42P01", Message: `relation "zones" does not exist`}
	cause := errors.WithStack(pgErr)
	require.Equal(t, `ERROR: relation "zones" does not exist (SQLSTATE 42P01)`, pgErr.Error())

	err := NewStorageError(cause)
	assert.Equal(t, `relation "zones" does not exist`, err.Message)
	assert.Equal(t, `relation "zones" does not exist`, err.Error())
	assert.Equal(t, fmt.Sprintf("%+v", cause), err.Stack)
	assert.ErrorIs(t, err, cause)
}

func TestNewStorageError_Nil(t *testing.T) {
	assert.Nil(t, NewStorageError(nil))
}

func TestAsStorageError(t *testing.T) {
	wrapped := fmt.Errorf("list zones: %w", NewStorageError(stderrors.New("boom")))

	storageErr, ok := AsStorageError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "boom", storageErr.Message)

	_, ok = AsStorageError(stderrors.New("other"))
	assert.False(t, ok)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Route not found", false, nil)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, 404, err.Status)
	assert.True(t, stderrors.Is(err, &HTTPError{}))

	code := "ZONE_NOT_FOUND"
	assert.Equal(t, code, NewNotFoundError("x", true, &code).Code)
	assert.Equal(t, "other", err.WithMessage("other").Message)
}
