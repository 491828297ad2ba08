package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
	"github.com/deppfellow/parking-api/internal/server"
	"github.com/deppfellow/parking-api/internal/service"
)

// SpaceHandler serves /spaces. Unlike zones, update and delete answer in
// plain text, on success and on failure; clients depend on that.
type SpaceHandler struct {
	Handler
	spaces *service.SpaceService
}

func NewSpaceHandler(s *server.Server, spaces *service.SpaceService) *SpaceHandler {
	return &SpaceHandler{
		Handler: NewHandler(s),
		spaces:  spaces,
	}
}

func (h *SpaceHandler) List(c echo.Context, req *model.ListRequest) ([]database.Row, error) {
	rows, err := h.spaces.List(c.Request().Context(), req.Search)
	if rows == nil && err == nil {
		rows = []database.Row{}
	}
	return rows, err
}

func (h *SpaceHandler) Get(c echo.Context, req *model.ResourceID) (*database.Row, error) {
	return h.spaces.Get(c.Request().Context(), req.Int64())
}

func (h *SpaceHandler) Create(c echo.Context, req *model.CreateSpaceRequest) (Result, error) {
	if err := h.spaces.Create(c.Request().Context(), req.SpacePayload); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: "Space created"}, nil
}

func (h *SpaceHandler) Update(c echo.Context, req *model.UpdateSpaceRequest) (string, error) {
	if err := h.spaces.Update(c.Request().Context(), req.Int64(), req.SpacePayload); err != nil {
		return "", err
	}
	return "Space updated", nil
}

func (h *SpaceHandler) Delete(c echo.Context, req *model.ResourceID) (string, error) {
	if err := h.spaces.Delete(c.Request().Context(), req.Int64()); err != nil {
		return "", err
	}
	return "Space deleted", nil
}
