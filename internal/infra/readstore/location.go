package readstore

import (
	"context"

	"boxcric-api/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationReadStore struct {
	pool *pgxpool.Pool
}

func NewLocationReadStore(pool *pgxpool.Pool) queries.LocationReadStore {
	return &LocationReadStore{pool: pool}
}

func (s *LocationReadStore) FindActive(ctx context.Context) ([]*queries.LocationView, error) {
	const query = `
SELECT id, city, state, is_active
FROM locations
WHERE is_active = TRUE
ORDER BY city`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, mapReadErr("list locations", err)
	}
	defer rows.Close()

	var views []*queries.LocationView
	for rows.Next() {
		var v queries.LocationView
		if err := rows.Scan(&v.ID, &v.City, &v.State, &v.IsActive); err != nil {
			return nil, mapReadErr("scan location", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr("iterate locations", err)
	}
	return views, nil
}
