package handler

import (
	"github.com/deppfellow/parking-api/internal/server"
	"github.com/deppfellow/parking-api/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Zones   *ZoneHandler
	Spaces  *SpaceHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Zones:   NewZoneHandler(s, services.Zones),
		Spaces:  NewSpaceHandler(s, services.Spaces),
	}
}
