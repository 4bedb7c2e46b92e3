package readstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingReadStore struct {
	pool *pgxpool.Pool
}

func NewBookingReadStore(pool *pgxpool.Pool) queries.BookingReadStore {
	return &BookingReadStore{pool: pool}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `
SELECT b.id, b.code, b.user_id, b.ground_id, g.name, b.booked_on, b.time_slot,
	b.duration, b.player_count, b.amount, b.notes, b.status,
	b.payment_order_id, b.payment_session_id, b.payment_status,
	b.payment_transaction_id, b.paid_at, b.payment_failure_reason,
	b.confirmation_code, b.confirmed_at, b.confirmed_by,
	b.cancellation_reason, b.cancelled_at, b.cancelled_by,
	b.created_at, b.updated_at
FROM bookings b
JOIN grounds g ON g.id = b.ground_id
WHERE b.id = $1`

	var (
		v                                  queries.BookingView
		orderID, sessionID, transactionID  *string
		failureReason, confCode, cancelWhy *string
		confirmedBy, cancelledBy           *string
		paidAt, confirmedAt, cancelledAt   *time.Time
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Code, &v.UserID, &v.GroundID, &v.GroundName, &v.BookedOn, &v.TimeSlot,
		&v.Duration, &v.PlayerCount, &v.Amount, &v.Notes, &v.Status,
		&orderID, &sessionID, &v.Payment.Status,
		&transactionID, &paidAt, &failureReason,
		&confCode, &confirmedAt, &confirmedBy,
		&cancelWhy, &cancelledAt, &cancelledBy,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, mapReadErr("find booking view", err)
	}

	if orderID != nil {
		v.Payment.OrderID = *orderID
	}
	if sessionID != nil {
		v.Payment.SessionID = *sessionID
	}
	if transactionID != nil {
		v.Payment.TransactionID = *transactionID
	}
	if failureReason != nil {
		v.Payment.FailureReason = *failureReason
	}
	v.Payment.PaidAt = paidAt

	if confCode != nil && confirmedAt != nil {
		v.Confirmation = &queries.BookingConfirmationView{Code: *confCode, ConfirmedAt: *confirmedAt}
		if confirmedBy != nil {
			v.Confirmation.ConfirmedBy = *confirmedBy
		}
	}
	if cancelWhy != nil && cancelledAt != nil {
		v.Cancellation = &queries.BookingCancellationView{Reason: *cancelWhy, CancelledAt: *cancelledAt}
		if cancelledBy != nil {
			v.Cancellation.CancelledBy = *cancelledBy
		}
	}

	return &v, nil
}

func (s *BookingReadStore) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	const query = `
SELECT b.id, b.code, b.ground_id, g.name, b.booked_on, b.time_slot, b.amount, b.status, b.created_at
FROM bookings b
JOIN grounds g ON g.id = b.ground_id
WHERE b.user_id = $1
ORDER BY b.created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, mapReadErr("list user bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var it queries.BookingListItem
		if err := rows.Scan(
			&it.ID, &it.Code, &it.GroundID, &it.GroundName, &it.BookedOn,
			&it.TimeSlot, &it.Amount, &it.Status, &it.CreatedAt,
		); err != nil {
			return nil, mapReadErr("scan booking", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr("iterate bookings", err)
	}
	return items, nil
}

func (s *BookingReadStore) FindAll(ctx context.Context, filter queries.AdminBookingFilter, limit, offset int32) ([]*queries.AdminBookingListItem, error) {
	var (
		conds = []string{"TRUE"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "b.status = "+arg(filter.Status))
	}
	if filter.GroundID != nil {
		conds = append(conds, "b.ground_id = "+arg(*filter.GroundID))
	}
	if filter.Date != "" {
		conds = append(conds, "b.booked_on = "+arg(filter.Date))
	}

	query := `
SELECT b.id, b.code, b.user_id, u.email, g.name, b.booked_on, b.time_slot,
	b.amount, b.status, b.created_at
FROM bookings b
JOIN grounds g ON g.id = b.ground_id
JOIN users u ON u.id = b.user_id
WHERE ` + strings.Join(conds, " AND ") + `
ORDER BY b.created_at DESC
LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapReadErr("list bookings", err)
	}
	defer rows.Close()

	var items []*queries.AdminBookingListItem
	for rows.Next() {
		var it queries.AdminBookingListItem
		if err := rows.Scan(
			&it.ID, &it.Code, &it.UserID, &it.UserEmail, &it.GroundName, &it.BookedOn,
			&it.TimeSlot, &it.Amount, &it.Status, &it.CreatedAt,
		); err != nil {
			return nil, mapReadErr("scan booking", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr("iterate bookings", err)
	}
	return items, nil
}
