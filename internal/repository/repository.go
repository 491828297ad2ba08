// Package repository handles all interactions with the Query Gateway.
//
// It contains the SQL statements for zones and spaces, abstracting SQL
// away from the service layer. Every value travels as a bound argument.
package repository

import (
	"context"

	"github.com/deppfellow/parking-api/internal/database"
	"github.com/deppfellow/parking-api/internal/model"
)

// likePattern wraps search for a substring match. `%` and `_` inside
// search are not escaped and keep their LIKE meaning.
func likePattern(search string) string {
	return "%" + search + "%"
}

// execute runs a statement that is only interesting for its success.
func execute(ctx context.Context, gw database.Gateway, stmt database.Statement) error {
	_, err := gw.Execute(ctx, stmt)
	return err
}

// first returns the first row, or nil when there is none.
func first(rows []database.Row) *database.Row {
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

// foreignKey binds an integer-looking reference as an integer and
// anything else as it was sent.
func foreignKey(v model.Value) any {
	if id, ok := v.Int64(); ok {
		return id
	}
	return v.Any()
}
