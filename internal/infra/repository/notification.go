package repository

import (
	"context"
	"time"

	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository is the transactional outbox for email jobs. A
// worker drains pending rows; enqueueing rides the same transaction as
// the state change it announces.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) commands.NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	const stmt = `
INSERT INTO notification_jobs (kind, topic, payload, run_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'pending', $5, $5)`

	if _, err := tx.Exec(ctx, stmt, kind, topic, payload, runAt, time.Now()); err != nil {
		return mapWriteErr("create notification job", err)
	}
	return nil
}
