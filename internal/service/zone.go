package service

import (
	"context"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
	"github.com/deppfellow/parking-api/internal/repository"
	"github.com/deppfellow/parking-api/internal/server"
)

type ZoneService struct {
	server *server.Server
	repo   *repository.ZoneRepository
}

func NewZoneService(s *server.Server, repo *repository.ZoneRepository) *ZoneService {
	return &ZoneService{server: s, repo: repo}
}

func (s *ZoneService) List(ctx context.Context, search string) ([]database.Row, error) {
	rows, err := s.repo.List(detach(ctx), search)
	if err != nil {
		return nil, storageFailure(ctx, s.server, "list_zones", err)
	}
	return rows, nil
}

// Get returns nil without error when no zone has the id.
func (s *ZoneService) Get(ctx context.Context, id int64) (*database.Row, error) {
	row, err := s.repo.Get(detach(ctx), id)
	if err != nil {
		return nil, storageFailure(ctx, s.server, "get_zone", err)
	}
	return row, nil
}

func (s *ZoneService) Create(ctx context.Context, payload model.ZonePayload) error {
	if err := s.repo.Create(detach(ctx), payload); err != nil {
		return storageFailure(ctx, s.server, "create_zone", err)
	}
	return nil
}

func (s *ZoneService) Update(ctx context.Context, id int64, payload model.ZonePayload) error {
	if err := s.repo.Update(detach(ctx), id, payload); err != nil {
		return storageFailure(ctx, s.server, "update_zone", err)
	}
	return nil
}

func (s *ZoneService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(detach(ctx), id); err != nil {
		return storageFailure(ctx, s.server, "delete_zone", err)
	}
	return nil
}
