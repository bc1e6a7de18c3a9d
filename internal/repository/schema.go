package repository

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Migrate applies the idempotent schema.
func Migrate(ctx context.Context, conn *pgxpool.Pool) error {
	_, err := conn.Exec(ctx, schema)
	return err
}
