package repository

import (
	"context"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
)

type SpaceRepository struct {
	gw database.Gateway
}

func NewSpaceRepository(gw database.Gateway) *SpaceRepository {
	return &SpaceRepository{gw: gw}
}

// List filters on the space number.
func (r *SpaceRepository) List(ctx context.Context, search string) ([]database.Row, error) {
	return r.gw.Execute(ctx, database.NewStatement(
		"SELECT * FROM spaces WHERE number LIKE ?",
		likePattern(search),
	))
}

func (r *SpaceRepository) Get(ctx context.Context, id int64) (*database.Row, error) {
	rows, err := r.gw.Execute(ctx, database.NewStatement(
		"SELECT * FROM spaces WHERE id = ?",
		id,
	))
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *SpaceRepository) Create(ctx context.Context, payload model.SpacePayload) error {
	return execute(ctx, r.gw, database.NewStatement(
		"INSERT INTO spaces (zone_id, number, status) VALUES (?, ?, ?)",
		foreignKey(payload.ZoneID), payload.Number.Any(), payload.Status.Any(),
	))
}

func (r *SpaceRepository) Update(ctx context.Context, id int64, payload model.SpacePayload) error {
	return execute(ctx, r.gw, database.NewStatement(
		"UPDATE spaces SET zone_id = ?, number = ?, status = ? WHERE id = ?",
		foreignKey(payload.ZoneID), payload.Number.Any(), payload.Status.Any(), id,
	))
}

func (r *SpaceRepository) Delete(ctx context.Context, id int64) error {
	return execute(ctx, r.gw, database.NewStatement(
		"DELETE FROM spaces WHERE id = ?",
		id,
	))
}
