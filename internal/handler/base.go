package handler

import (
	"net/http"
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/parking-api/internal/errs"
	"github.com/deppfellow/parking-api/internal/middleware"
	"github.com/deppfellow/parking-api/internal/server"
	"github.com/deppfellow/parking-api/internal/validation"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Operation names a (resource, operation) pair for logs, traces and metrics.
type Operation struct {
	Resource string
	Name     string
}

// Result is the structured body of zone mutations and of every create.
// Stack is only present on failures.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// --- Generic typed handler plumbing -----------------------------------------

// HandlerFunc is a typed endpoint function that receives a bound and
// validated request and returns a response or an error.
//
// Req must be a pointer type, e.g. *model.UpdateZoneRequest; a fresh
// value is allocated for every request.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler defines how a successful handler result is written to
// the HTTP response.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error

	// GetOperation returns the handler kind used for structured logging.
	GetOperation() string

	// AddAttributes attaches New Relic attributes based on the result.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		txn.AddAttribute("result.count", v.Len())
	}
}

// OptionalJSONResponseHandler writes JSON, or an empty body when the
// handler found nothing. The status stays the same either way.
type OptionalJSONResponseHandler struct {
	status int
}

func (h OptionalJSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	if result == nil {
		return c.Blob(h.status, echo.MIMEApplicationJSON, nil)
	}
	return c.JSON(h.status, result)
}

func (h OptionalJSONResponseHandler) GetOperation() string {
	return "handler_optional"
}

func (h OptionalJSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	txn.AddAttribute("result.found", result != nil)
}

// TextResponseHandler writes a plain text body. The handler must return a string.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.String(h.status, result.(string))
}

func (h TextResponseHandler) GetOperation() string {
	return "handler_text"
}

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// FailureResponder writes the 500 body for a storage failure.
type FailureResponder interface {
	Respond(c echo.Context, err *errs.StorageError) error
	GetShape() string
}

// TextFailure answers with the failure message as plain text.
type TextFailure struct{}

func (TextFailure) Respond(c echo.Context, err *errs.StorageError) error {
	return c.String(http.StatusInternalServerError, err.Message)
}

func (TextFailure) GetShape() string {
	return "text"
}

// StructuredFailure answers with {"success":false,"message":...,"stack":...}.
type StructuredFailure struct{}

func (StructuredFailure) Respond(c echo.Context, err *errs.StorageError) error {
	return c.JSON(http.StatusInternalServerError, Result{
		Success: false,
		Message: err.Message,
		Stack:   err.Stack,
	})
}

func (StructuredFailure) GetShape() string {
	return "structured"
}

// newRequest allocates the value a pointer type parameter points to.
func newRequest[Req validation.Validatable]() Req {
	var zero Req
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(Req)
}

// handleRequest is the shared execution pipeline for all resource handlers.
// It centralizes:
//
//   - request binding + validation
//   - structured logging (with request context)
//   - New Relic tracing attributes and error reporting
//   - timing (validation duration, handler duration, total duration)
//   - request metrics
//   - response writing on success and on storage failure
//
// Errors other than storage failures (bind errors, invalid ids) are
// returned for the global error handler to answer.
func handleRequest[Req validation.Validatable](
	h Handler,
	c echo.Context,
	op Operation,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
	failure FailureResponder,
) error {
	start := time.Now()
	req := newRequest[Req]()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
		txn.AddAttribute("handler.resource", op.Resource)
		txn.AddAttribute("handler.operation", op.Name)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("resource", op.Resource).
		Str("action", op.Name).
		Str("route", c.Path()).
		Logger()

	logger.Debug().Msg("handling request")

	// ---------------- Validation phase ---------------------------------------
	validationStart := time.Now()

	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request binding failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		h.server.Metrics.ObserveRequest(op.Resource, op.Name, middleware.ResponseStatus(err))
		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	// ---------------- Handler execution phase --------------------------------
	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)
		storageErr, isStorage := errs.AsStorageError(err)

		// Storage failures were already logged with their classification
		// by the service layer.
		event := logger.Error()
		if isStorage {
			event = logger.Debug()
		}
		event.
			Err(err).
			Str("failure_shape", failure.GetShape()).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}

		if !isStorage {
			h.server.Metrics.ObserveRequest(op.Resource, op.Name, middleware.ResponseStatus(err))
			return err
		}

		h.server.Metrics.ObserveRequest(op.Resource, op.Name, http.StatusInternalServerError)
		return failure.Respond(c, storageErr)
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	if err := responseHandler.Handle(c, result); err != nil {
		return err
	}

	h.server.Metrics.ObserveRequest(op.Resource, op.Name, c.Response().Status)
	return nil
}

// Handle wraps a handler whose result is written as JSON.
//
// Usage:
//
//	router.POST("/zones", handler.Handle(h, op, fn, http.StatusCreated, handler.StructuredFailure{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	op Operation,
	handler HandlerFunc[Req, Res],
	status int,
	failure FailureResponder,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, op, func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status}, failure)
	}
}

// HandleOptional wraps a handler that may find nothing. A nil result is
// written as an empty body with the same status.
func HandleOptional[Req validation.Validatable, Res any](
	h Handler,
	op Operation,
	handler HandlerFunc[Req, *Res],
	status int,
	failure FailureResponder,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, op, func(c echo.Context, req Req) (interface{}, error) {
			res, err := handler(c, req)
			if err != nil || res == nil {
				return nil, err
			}
			return res, nil
		}, OptionalJSONResponseHandler{status: status}, failure)
	}
}

// HandleText wraps a handler whose result is written as plain text.
func HandleText[Req validation.Validatable](
	h Handler,
	op Operation,
	handler HandlerFunc[Req, string],
	status int,
	failure FailureResponder,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, op, func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, TextResponseHandler{status: status}, failure)
	}
}
