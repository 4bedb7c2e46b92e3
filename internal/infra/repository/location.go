package repository

import (
	"context"

	"boxcric-api/internal/domain/location"
	"boxcric-api/internal/infra/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) Create(ctx context.Context, tx db.DBTX, l *location.Location) error {
	const stmt = `
INSERT INTO locations (id, city, state, is_active, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, stmt, l.ID(), l.City(), l.State(), l.IsActive(), l.CreatedAt())
	if err != nil {
		return mapWriteErr("create location", err)
	}
	return nil
}
