package repository

import (
	"context"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
)

type ZoneRepository struct {
	gw database.Gateway
}

func NewZoneRepository(gw database.Gateway) *ZoneRepository {
	return &ZoneRepository{gw: gw}
}

func (r *ZoneRepository) List(ctx context.Context, search string) ([]database.Row, error) {
	return r.gw.Execute(ctx, database.NewStatement(
		"SELECT * FROM zones WHERE name LIKE ?",
		likePattern(search),
	))
}

func (r *ZoneRepository) Get(ctx context.Context, id int64) (*database.Row, error) {
	rows, err := r.gw.Execute(ctx, database.NewStatement(
		"SELECT * FROM zones WHERE id = ?",
		id,
	))
	if err != nil {
		return nil, err
	}
	return first(rows), nil
}

func (r *ZoneRepository) Create(ctx context.Context, payload model.ZonePayload) error {
	return execute(ctx, r.gw, database.NewStatement(
		"INSERT INTO zones (name, description) VALUES (?, ?)",
		payload.Name.Any(), payload.Description.Any(),
	))
}

func (r *ZoneRepository) Update(ctx context.Context, id int64, payload model.ZonePayload) error {
	return execute(ctx, r.gw, database.NewStatement(
		"UPDATE zones SET name = ?, description = ? WHERE id = ?",
		payload.Name.Any(), payload.Description.Any(), id,
	))
}

func (r *ZoneRepository) Delete(ctx context.Context, id int64) error {
	return execute(ctx, r.gw, database.NewStatement(
		"DELETE FROM zones WHERE id = ?",
		id,
	))
}
