package service

import (
	"context"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
	"github.com/deppfellow/parking-api/internal/repository"
	"github.com/deppfellow/parking-api/internal/server"
)

type SpaceService struct {
	server *server.Server
	repo   *repository.SpaceRepository
}

func NewSpaceService(s *server.Server, repo *repository.SpaceRepository) *SpaceService {
	return &SpaceService{server: s, repo: repo}
}

func (s *SpaceService) List(ctx context.Context, search string) ([]database.Row, error) {
	rows, err := s.repo.List(detach(ctx), search)
	if err != nil {
		return nil, storageFailure(ctx, s.server, "list_spaces", err)
	}
	return rows, nil
}

// Get returns nil without error when no space has the id.
func (s *SpaceService) Get(ctx context.Context, id int64) (*database.Row, error) {
	row, err := s.repo.Get(detach(ctx), id)
	if err != nil {
		return nil, storageFailure(ctx, s.server, "get_space", err)
	}
	return row, nil
}

func (s *SpaceService) Create(ctx context.Context, payload model.SpacePayload) error {
	if err := s.repo.Create(detach(ctx), payload); err != nil {
		return storageFailure(ctx, s.server, "create_space", err)
	}
	return nil
}

func (s *SpaceService) Update(ctx context.Context, id int64, payload model.SpacePayload) error {
	if err := s.repo.Update(detach(ctx), id, payload); err != nil {
		return storageFailure(ctx, s.server, "update_space", err)
	}
	return nil
}

func (s *SpaceService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(detach(ctx), id); err != nil {
		return storageFailure(ctx, s.server, "delete_space", err)
	}
	return nil
}
