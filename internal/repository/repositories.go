package repository

import (
	"github.com/deppfellow/parking-api/internal/database"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Zones  *ZoneRepository
	Spaces *SpaceRepository
}

// NewRepositories constructs the repository container over a single gateway.
func NewRepositories(gw database.Gateway) *Repositories {
	return &Repositories{
		Zones:  NewZoneRepository(gw),
		Spaces: NewSpaceRepository(gw),
	}
}
