package infrastructure

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

// NewExportsPool connects to the export history database. An empty dsn
// falls back to EXPORTS_DATABASE_URL; with neither set there is no pool
// and export records are not persisted.
func NewExportsPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		dsn = os.Getenv("EXPORTS_DATABASE_URL")
	}
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return pool, nil
}
