package router

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/parking-api/internal/config"
	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/handler"
	"github.com/deppfellow/parking-api/internal/repository"
	"github.com/deppfellow/parking-api/internal/server"
	"github.com/deppfellow/parking-api/internal/service"
)

type mockConn struct {
	mock.Mock
	pingErr error
}

func (m *mockConn) Execute(ctx context.Context, stmt database.Statement) ([]database.Row, error) {
	args := m.Called(ctx, stmt)
	rows, _ := args.Get(0).([]database.Row)
	return rows, args.Error(1)
}

func (m *mockConn) Ping(context.Context) error { return m.pingErr }
func (m *mockConn) Close() error               { return nil }
func (m *mockConn) Driver() string             { return "mock" }

// expect registers a gateway call whose statement renders as literal.
func (m *mockConn) expect(literal string, rows []database.Row, err error) {
	m.On("Execute", mock.Anything, mock.MatchedBy(func(stmt database.Statement) bool {
		return stmt.Literal() == literal
	})).Return(rows, err).Once()
}

func newTestRouter(t *testing.T) (*echo.Echo, *mockConn) {
	t.Helper()
	return newTestRouterWithLogger(t, zerolog.Nop())
}

func newTestRouterWithLogger(t *testing.T, logger zerolog.Logger) (*echo.Echo, *mockConn) {
	t.Helper()

	cfg := &config.Config{
		Primary:       config.Primary{Env: "test"},
		Server:        config.ServerConfig{Port: "3000", CORSAllowedOrigins: []string{"*"}},
		Observability: config.DefaultObservabilityConfig(),
	}

	conn := &mockConn{}
	s := server.NewWithConn(cfg, &logger, nil, conn)

	services, err := service.NewService(s, repository.NewRepositories(s.DB))
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services)), conn
}

func do(e *echo.Echo, method, target, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func zoneRow(id int64, name, description string) database.Row {
	return database.NewRow([]string{"id", "name", "description"}, []any{id, name, description})
}

func assertText(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, body, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
}

func assertJSON(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.JSONEq(t, body, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON))
}

// --- Zones -------------------------------------------------------------------

func TestZones_List(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("SELECT * FROM zones WHERE name LIKE '%A%'", []database.Row{zoneRow(1, "Zona A", "Primera zona")}, nil)

	rec := do(e, http.MethodGet, "/zones?search=A", "", "")

	assertJSON(t, rec, http.StatusOK, `[{"id":1,"name":"Zona A","description":"Primera zona"}]`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `[{"id":1,"name":"Zona A"`), "column order is preserved")
	conn.AssertExpectations(t)
}

func TestZones_ListWithoutSearchMatchesAll(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("SELECT * FROM zones WHERE name LIKE '%%'", []database.Row{
		zoneRow(1, "Zona A", "Primera zona"),
		zoneRow(2, "Zona B", "Segunda zona"),
	}, nil)

	rec := do(e, http.MethodGet, "/zones", "", "")

	assertJSON(t, rec, http.StatusOK, `[
		{"id":1,"name":"Zona A","description":"Primera zona"},
		{"id":2,"name":"Zona B","description":"Segunda zona"}
	]`)
	conn.AssertExpectations(t)
}

func TestZones_ListNoRows(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("SELECT * FROM zones WHERE name LIKE '%zzz%'", nil, nil)

	rec := do(e, http.MethodGet, "/zones?search=zzz", "", "")
	assertJSON(t, rec, http.StatusOK, `[]`)
}

func TestZones_Get(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("SELECT * FROM zones WHERE id = 1", []database.Row{
		zoneRow(1, "Zona A", "Primera zona"),
		zoneRow(1, "duplicate", "ignored"),
	}, nil)

	rec := do(e, http.MethodGet, "/zones/1", "", "")

	assertJSON(t, rec, http.StatusOK, `{"id":1,"name":"Zona A","description":"Primera zona"}`)
	conn.AssertExpectations(t)
}

func TestZones_GetMissingIsEmpty200(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("SELECT * FROM zones WHERE id = 999", []database.Row{}, nil)

	rec := do(e, http.MethodGet, "/zones/999", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestZones_GetNonNumericID(t *testing.T) {
	e, conn := newTestRouter(t)

	rec := do(e, http.MethodGet, "/zones/abc", "", "")

	assertJSON(t, rec, http.StatusNotFound, `{"code":"NOT_FOUND","message":"Route not found","status":404,"override":false}`)
	conn.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestZones_Create(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("INSERT INTO zones (name, description) VALUES ('Zona C', 'Tercera zona')", nil, nil)

	rec := do(e, http.MethodPost, "/zones", `{"name":"Zona C","description":"Tercera zona"}`, echo.MIMEApplicationJSON)

	assertJSON(t, rec, http.StatusCreated, `{"success":true,"message":"Zone created"}`)
	conn.AssertExpectations(t)
}

func TestZones_CreateMissingFieldIsNull(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("INSERT INTO zones (name, description) VALUES ('Zona D', NULL)", nil, nil)

	rec := do(e, http.MethodPost, "/zones", `{"name":"Zona D"}`, echo.MIMEApplicationJSON)

	assertJSON(t, rec, http.StatusCreated, `{"success":true,"message":"Zone created"}`)
	conn.AssertExpectations(t)
}

func TestZones_Update(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("UPDATE zones SET name = 'Zona A', description = 'Renombrada' WHERE id = 1", nil, nil)

	rec := do(e, http.MethodPut, "/zones/1", `{"name":"Zona A","description":"Renombrada"}`, echo.MIMEApplicationJSON)

	assertJSON(t, rec, http.StatusOK, `{"success":true,"message":"Zone updated"}`)
	conn.AssertExpectations(t)
}

func TestZones_Delete(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("DELETE FROM zones WHERE id = 1", nil, nil)

	rec := do(e, http.MethodDelete, "/zones/1", "", "")

	assertJSON(t, rec, http.StatusOK, `{"success":true,"message":"Zone deleted"}`)
	conn.AssertExpectations(t)
}

func TestZones_Failures(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		message string
		text    bool
	}{
		{name: "list", method: http.MethodGet, target: "/zones", message: "Database error", text: true},
		{name: "get", method: http.MethodGet, target: "/zones/1", message: "Database error", text: true},
		{name: "create", method: http.MethodPost, target: "/zones", body: `{"name":"Zona C"}`, message: "Insert failed"},
		{name: "update", method: http.MethodPut, target: "/zones/1", body: `{"name":"Zona A"}`, message: "Update failed"},
		{name: "delete", method: http.MethodDelete, target: "/zones/1", message: "Delete failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, conn := newTestRouter(t)
			conn.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New(tt.message))

			contentType := ""
			if tt.body != "" {
				contentType = echo.MIMEApplicationJSON
			}
			rec := do(e, tt.method, tt.target, tt.body, contentType)

			if tt.text {
				assertText(t, rec, http.StatusInternalServerError, tt.message)
				return
			}
			assertStructuredFailure(t, rec, tt.message)
		})
	}
}

func assertStructuredFailure(t *testing.T, rec *httptest.ResponseRecorder, message string) {
	t.Helper()

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, message, body["message"])

	stack, ok := body["stack"].(string)
	require.True(t, ok, "stack must be a string")
	assert.Contains(t, stack, message)
	assert.Len(t, body, 3)
}

func TestPostgresFailuresCarryDriverMessage(t *testing.T) {
	missing := func() error {
		return pkgerrors.WithStack(&pgconn.PgError{
			Severity: "ERROR",
			Code:     "42P01",
			Message:  `relation "zones" does not exist`,
		})
	}

	t.Run("text", func(t *testing.T) {
		e, conn := newTestRouter(t)
		conn.On("Execute", mock.Anything, mock.Anything).Return(nil, missing())

		rec := do(e, http.MethodGet, "/zones", "", "")
		assertText(t, rec, http.StatusInternalServerError, `relation "zones" does not exist`)
	})

	t.Run("structured", func(t *testing.T) {
		e, conn := newTestRouter(t)
		conn.On("Execute", mock.Anything, mock.Anything).Return(nil, missing())

		rec := do(e, http.MethodPut, "/zones/1", `{"name":"Zona A"}`, echo.MIMEApplicationJSON)
		assertStructuredFailure(t, rec, `relation "zones" does not exist`)
	})
}

func TestStorageFailureLoggedOnceAtError(t *testing.T) {
	var buf bytes.Buffer
	e, conn := newTestRouterWithLogger(t, zerolog.New(&buf).Level(zerolog.DebugLevel))
	conn.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("Delete failed"))

	rec := do(e, http.MethodDelete, "/spaces/1", "", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	levels := map[string][]string{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		msg, _ := line["message"].(string)
		level, _ := line["level"].(string)
		levels[msg] = append(levels[msg], level)
	}

	assert.Equal(t, []string{"error"}, levels["storage operation failed"])
	assert.Equal(t, []string{"debug"}, levels["handler execution failed"])
}

// --- Spaces ------------------------------------------------------------------

func TestSpaces_ListAndGet(t *testing.T) {
	e, conn := newTestRouter(t)
	row := database.NewRow([]string{"id", "zone_id", "number", "status"}, []any{int64(1), int64(1), "A-01", "available"})
	conn.expect("SELECT * FROM spaces WHERE number LIKE '%A-01%'", []database.Row{row}, nil)
	conn.expect("SELECT * FROM spaces WHERE id = 1", []database.Row{row}, nil)

	rec := do(e, http.MethodGet, "/spaces?search=A-01", "", "")
	assertJSON(t, rec, http.StatusOK, `[{"id":1,"zone_id":1,"number":"A-01","status":"available"}]`)

	rec = do(e, http.MethodGet, "/spaces/1", "", "")
	assertJSON(t, rec, http.StatusOK, `{"id":1,"zone_id":1,"number":"A-01","status":"available"}`)

	conn.AssertExpectations(t)
}

func TestSpaces_Create(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("INSERT INTO spaces (zone_id, number, status) VALUES (1, 'A-03', 'available')", nil, nil)

	rec := do(e, http.MethodPost, "/spaces", `{"zone_id":1,"number":"A-03","status":"available"}`, echo.MIMEApplicationJSON)

	assertJSON(t, rec, http.StatusCreated, `{"success":true,"message":"Space created"}`)
	conn.AssertExpectations(t)
}

func TestSpaces_CreateFromForm(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("INSERT INTO spaces (zone_id, number, status) VALUES (1, 'A-03', 'available')", nil, nil)

	rec := do(e, http.MethodPost, "/spaces", "zone_id=1&number=A-03&status=available", echo.MIMEApplicationForm)

	assertJSON(t, rec, http.StatusCreated, `{"success":true,"message":"Space created"}`)
	conn.AssertExpectations(t)
}

func TestSpaces_UpdateIsPlainText(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("UPDATE spaces SET zone_id = 1, number = 'A-01', status = 'occupied' WHERE id = 1", nil, nil)

	rec := do(e, http.MethodPut, "/spaces/1", `{"zone_id":1,"number":"A-01","status":"occupied"}`, echo.MIMEApplicationJSON)

	assertText(t, rec, http.StatusOK, "Space updated")
	conn.AssertExpectations(t)
}

func TestSpaces_DeleteIsPlainText(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("DELETE FROM spaces WHERE id = 1", nil, nil)

	rec := do(e, http.MethodDelete, "/spaces/1", "", "")

	assertText(t, rec, http.StatusOK, "Space deleted")
	conn.AssertExpectations(t)
}

func TestSpaces_Failures(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		message string
		text    bool
	}{
		{name: "list", method: http.MethodGet, target: "/spaces?search=A", message: "Database error", text: true},
		{name: "get", method: http.MethodGet, target: "/spaces/1", message: "Database error", text: true},
		{name: "create", method: http.MethodPost, target: "/spaces", body: `{"zone_id":1}`, message: "Insert failed"},
		{name: "update", method: http.MethodPut, target: "/spaces/1", body: `{"zone_id":1}`, message: "Update failed", text: true},
		{name: "delete", method: http.MethodDelete, target: "/spaces/1", message: "Delete failed", text: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, conn := newTestRouter(t)
			conn.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New(tt.message))

			contentType := ""
			if tt.body != "" {
				contentType = echo.MIMEApplicationJSON
			}
			rec := do(e, tt.method, tt.target, tt.body, contentType)

			if tt.text {
				assertText(t, rec, http.StatusInternalServerError, tt.message)
				return
			}
			assertStructuredFailure(t, rec, tt.message)
		})
	}
}

// --- Cross-cutting -----------------------------------------------------------

func TestMalformedJSONNeverReachesHandler(t *testing.T) {
	e, conn := newTestRouter(t)

	rec := do(e, http.MethodPost, "/zones", `{"name": `, echo.MIMEApplicationJSON)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Something broke! "), rec.Body.String())
	conn.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	for _, rec := range []*httptest.ResponseRecorder{
		do(e, http.MethodGet, "/zones", "", ""),
		do(e, http.MethodDelete, "/spaces/1", "", ""),
		do(e, http.MethodGet, "/unknown", "", ""),
		do(e, http.MethodOptions, "/zones", "", ""),
	} {
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "Origin, X-Requested-With, Content-Type, Accept", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
		assert.Equal(t, "GET, POST, PUT, DELETE", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/parking-lots", "", "")
	assertJSON(t, rec, http.StatusNotFound, `{"code":"NOT_FOUND","message":"Route not found","status":404,"override":false}`)

	rec = do(e, http.MethodPatch, "/zones/1", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatus(t *testing.T) {
	e, conn := newTestRouter(t)

	rec := do(e, http.MethodGet, "/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	conn.pingErr = errors.New("connection refused")
	rec = do(e, http.MethodGet, "/status", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestDocs(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/docs", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/docs/openapi.json")

	rec = do(e, http.MethodGet, "/docs/openapi.json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/spaces/{id}")
}

func TestMetrics(t *testing.T) {
	e, conn := newTestRouter(t)
	conn.expect("DELETE FROM spaces WHERE id = 1", nil, nil)

	do(e, http.MethodDelete, "/spaces/1", "", "")

	rec := do(e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `parking_resource_requests_total{operation="delete",resource="spaces",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `parking_query_duration_seconds_count{driver="mock",outcome="success"} 1`)
}
