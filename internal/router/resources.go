package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/parking-api/internal/handler"
)

// Failure shapes differ per operation and are part of the API contract:
// reads fail as text everywhere, creates fail as a Result everywhere,
// zone mutations fail as a Result and space mutations fail as text.

func registerZoneRoutes(r *echo.Echo, h *handler.ZoneHandler) {
	zones := r.Group("/zones")

	zones.GET("", handler.Handle(h.Handler, op("zones", "list"), h.List, http.StatusOK, handler.TextFailure{}))
	zones.GET("/:id", handler.HandleOptional(h.Handler, op("zones", "get"), h.Get, http.StatusOK, handler.TextFailure{}))
	zones.POST("", handler.Handle(h.Handler, op("zones", "create"), h.Create, http.StatusCreated, handler.StructuredFailure{}))
	zones.PUT("/:id", handler.Handle(h.Handler, op("zones", "update"), h.Update, http.StatusOK, handler.StructuredFailure{}))
	zones.DELETE("/:id", handler.Handle(h.Handler, op("zones", "delete"), h.Delete, http.StatusOK, handler.StructuredFailure{}))
}

func registerSpaceRoutes(r *echo.Echo, h *handler.SpaceHandler) {
	spaces := r.Group("/spaces")

	spaces.GET("", handler.Handle(h.Handler, op("spaces", "list"), h.List, http.StatusOK, handler.TextFailure{}))
	spaces.GET("/:id", handler.HandleOptional(h.Handler, op("spaces", "get"), h.Get, http.StatusOK, handler.TextFailure{}))
	spaces.POST("", handler.Handle(h.Handler, op("spaces", "create"), h.Create, http.StatusCreated, handler.StructuredFailure{}))
	spaces.PUT("/:id", handler.HandleText(h.Handler, op("spaces", "update"), h.Update, http.StatusOK, handler.TextFailure{}))
	spaces.DELETE("/:id", handler.HandleText(h.Handler, op("spaces", "delete"), h.Delete, http.StatusOK, handler.TextFailure{}))
}

func op(resource, name string) handler.Operation {
	return handler.Operation{Resource: resource, Name: name}
}
