package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
	"github.com/deppfellow/parking-api/internal/server"
	"github.com/deppfellow/parking-api/internal/service"
)

// ZoneHandler serves /zones. Every mutation answers with a Result, on
// success and on failure.
type ZoneHandler struct {
	Handler
	zones *service.ZoneService
}

func NewZoneHandler(s *server.Server, zones *service.ZoneService) *ZoneHandler {
	return &ZoneHandler{
		Handler: NewHandler(s),
		zones:   zones,
	}
}

func (h *ZoneHandler) List(c echo.Context, req *model.ListRequest) ([]database.Row, error) {
	rows, err := h.zones.List(c.Request().Context(), req.Search)
	if rows == nil && err == nil {
		rows = []database.Row{}
	}
	return rows, err
}

func (h *ZoneHandler) Get(c echo.Context, req *model.ResourceID) (*database.Row, error) {
	return h.zones.Get(c.Request().Context(), req.Int64())
}

func (h *ZoneHandler) Create(c echo.Context, req *model.CreateZoneRequest) (Result, error) {
	if err := h.zones.Create(c.Request().Context(), req.ZonePayload); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "Zone created"}, nil
}

func (h *ZoneHandler) Update(c echo.Context, req *model.UpdateZoneRequest) (Result, error) {
	if err := h.zones.Update(c.Request().Context(), req.Int64(), req.ZonePayload); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "Zone updated"}, nil
}

func (h *ZoneHandler) Delete(c echo.Context, req *model.ResourceID) (Result, error) {
	if err := h.zones.Delete(c.Request().Context(), req.Int64()); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "Zone deleted"}, nil
}
