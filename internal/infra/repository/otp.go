package repository

import (
	"context"
	"time"

	"boxcric-api/internal/domain/otp"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) commands.OTPRepository {
	return &OTPRepository{pool: pool}
}

func (r *OTPRepository) Create(ctx context.Context, tx db.DBTX, o *otp.OTP) error {
	const stmt = `
INSERT INTO otps (id, email, code, purpose, used, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, stmt,
		o.ID(),
		o.Email(),
		o.Code(),
		string(o.Purpose()),
		o.Used(),
		o.ExpiresAt(),
		o.CreatedAt(),
	)
	if err != nil {
		return mapWriteErr("create otp", err)
	}
	return nil
}

func (r *OTPRepository) FindLatest(ctx context.Context, email string, purpose otp.Purpose) (*otp.OTP, error) {
	const query = `
SELECT id, email, code, purpose, used, expires_at, created_at
FROM otps
WHERE email = $1 AND purpose = $2 AND used = FALSE
ORDER BY created_at DESC
LIMIT 1`

	var (
		id                   uuid.UUID
		mail, code, purp     string
		used                 bool
		expiresAt, createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, email, string(purpose)).
		Scan(&id, &mail, &code, &purp, &used, &expiresAt, &createdAt)
	if err != nil {
		return nil, mapReadErr("find latest otp", err)
	}

	return otp.Reconstruct(id, mail, code, otp.Purpose(purp), used, expiresAt, createdAt), nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	const stmt = `UPDATE otps SET used = TRUE WHERE id = $1`

	if _, err := tx.Exec(ctx, stmt, id); err != nil {
		return mapWriteErr("mark otp used", err)
	}
	return nil
}
