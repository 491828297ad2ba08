package service

import (
	"github.com/deppfellow/parking-api/internal/repository"
	"github.com/deppfellow/parking-api/internal/server"
)

type Services struct {
	Zones  *ZoneService
	Spaces *SpaceService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Zones:  NewZoneService(s, repos.Zones),
		Spaces: NewSpaceService(s, repos.Spaces),
	}, nil
}
