package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	mock.Mock
}

func (m *mockConn) Execute(ctx context.Context, stmt Statement) ([]Row, error) {
	args := m.Called(ctx, stmt)
	rows, _ := args.Get(0).([]Row)
	return rows, args.Error(1)
}

func (m *mockConn) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockConn) Close() error                   { return m.Called().Error(0) }
func (m *mockConn) Driver() string                 { return "mock" }

type recordingObserver struct {
	driver, outcome string
	elapsed         time.Duration
	calls           int
}

func (o *recordingObserver) ObserveQuery(driver, outcome string, elapsed time.Duration) {
	o.driver, o.outcome, o.elapsed = driver, outcome, elapsed
	o.calls++
}

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestInstrument_SlowStatementLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	conn := &mockConn{}
	stmt := NewStatement("DELETE FROM spaces WHERE id = ?", int64(1))
	conn.On("Execute", mock.Anything, stmt).Return([]Row{}, nil)

	obs := &recordingObserver{}
	inst := Instrument(conn, &logger, 100*time.Millisecond, obs)
	inst.now = steppingClock(200 * time.Millisecond)

	_, err := inst.Execute(context.Background(), stmt)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "slow statement")
	assert.Contains(t, buf.String(), "DELETE FROM spaces WHERE id = 1")
	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, "mock", obs.driver)
	assert.Equal(t, OutcomeSuccess, obs.outcome)
	assert.Equal(t, 200*time.Millisecond, obs.elapsed)
	conn.AssertExpectations(t)
}

func TestInstrument_FastStatementNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	conn := &mockConn{}
	stmt := NewStatement("SELECT 1")
	conn.On("Execute", mock.Anything, stmt).Return(nil, errors.New("boom"))

	obs := &recordingObserver{}
	inst := Instrument(conn, &logger, time.Second, obs)
	inst.now = steppingClock(time.Millisecond)

	_, err := inst.Execute(context.Background(), stmt)
	require.EqualError(t, err, "boom")

	assert.Empty(t, buf.String())
	assert.Equal(t, OutcomeError, obs.outcome)
}

func TestInstrument_NilObserver(t *testing.T) {
	logger := zerolog.Nop()
	conn := &mockConn{}
	conn.On("Execute", mock.Anything, mock.Anything).Return([]Row{}, nil)

	inst := Instrument(conn, &logger, 0, nil)
	_, err := inst.Execute(context.Background(), NewStatement("SELECT 1"))
	assert.NoError(t, err)
	assert.Equal(t, "mock", inst.Driver())
}
