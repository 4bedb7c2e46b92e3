package repository

import (
	"context"
	"time"

	"boxcric-api/internal/domain/user"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) commands.UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) error {
	const stmt = `
INSERT INTO users (id, name, email, phone, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, stmt,
		u.ID(),
		u.Name(),
		u.Email().Value(),
		u.Phone().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.CreatedAt(),
		u.UpdatedAt(),
	)
	if err != nil {
		return mapWriteErr("create user", err)
	}
	return nil
}

func (r *UserRepository) IncrementBookings(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	const stmt = `UPDATE users SET total_bookings = total_bookings + 1, updated_at = now() WHERE id = $1`

	if _, err := tx.Exec(ctx, stmt, id); err != nil {
		return mapWriteErr("increment user bookings", err)
	}
	return nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error {
	const stmt = `UPDATE users SET last_login_at = $2 WHERE id = $1`

	if _, err := tx.Exec(ctx, stmt, id, at); err != nil {
		return mapWriteErr("record user login", err)
	}
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, mapReadErr("check user exists", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, phone).Scan(&exists); err != nil {
		return false, mapReadErr("check user exists", err)
	}
	return exists, nil
}
