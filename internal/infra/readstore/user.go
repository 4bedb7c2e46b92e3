package readstore

import (
	"context"

	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) queries.UserReadStore {
	return &UserReadStore{pool: pool}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const query = `
SELECT id, name, email, phone, role, created_at
FROM users
WHERE id = $1`

	var v queries.AuthorizedUserView
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Role, &v.CreatedAt)
	if err != nil {
		return nil, mapReadErr("find user", err)
	}
	return &v, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const query = `
SELECT id, name, email, phone, role, password_hash, created_at
FROM users
WHERE email = $1`

	var (
		v    queries.AuthorizedUserView
		hash string
	)
	err := s.pool.QueryRow(ctx, query, email).
		Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Role, &hash, &v.CreatedAt)
	if err != nil {
		return nil, "", mapReadErr("find user by email", err)
	}
	return &v, hash, nil
}
