package repository

import (
	"context"
	"time"

	"boxcric-api/internal/domain/booking"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
	id, code, user_id, ground_id, booked_on, time_slot, duration, player_count, amount, notes, status,
	payment_order_id, payment_session_id, payment_status, payment_transaction_id,
	paid_at, payment_failure_reason, gateway_snapshot,
	confirmation_code, confirmed_at, confirmed_by,
	cancellation_reason, cancelled_at, cancelled_by,
	created_at, updated_at`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) commands.BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const stmt = `
INSERT INTO bookings (
	id, code, user_id, ground_id, booked_on, time_slot, duration, player_count, amount, notes, status,
	payment_status, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, stmt,
		b.ID(),
		b.Code(),
		b.UserID(),
		b.GroundID(),
		b.BookedOn(),
		b.TimeSlot(),
		b.Duration(),
		b.PlayerCount(),
		b.Amount(),
		b.Notes(),
		b.Status().String(),
		b.Payment().Status.String(),
		b.CreatedAt(),
		b.UpdatedAt(),
	)
	if err != nil {
		return mapWriteErr("create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const query = `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.pool.QueryRow(ctx, query, id), "find booking")
}

func (r *BookingRepository) FindByOrderID(ctx context.Context, orderID string) (*booking.Booking, error) {
	const query = `SELECT` + bookingColumns + ` FROM bookings WHERE payment_order_id = $1`
	return r.scanBooking(r.pool.QueryRow(ctx, query, orderID), "find booking by order")
}

// Update writes the full mutable state guarded by the previously loaded
// status. Zero rows affected means a concurrent transition won; the
// caller decides whether that is benign.
func (r *BookingRepository) Update(ctx context.Context, tx db.DBTX, b *booking.Booking, expected booking.Status) (bool, error) {
	const stmt = `
UPDATE bookings SET
	status = $3,
	payment_order_id = $4, payment_session_id = $5, payment_status = $6,
	payment_transaction_id = $7, paid_at = $8, payment_failure_reason = $9,
	gateway_snapshot = $10,
	confirmation_code = $11, confirmed_at = $12, confirmed_by = $13,
	cancellation_reason = $14, cancelled_at = $15, cancelled_by = $16,
	updated_at = $17
WHERE id = $1 AND status = $2`

	p := b.Payment()

	var confirmationCode, confirmedBy *string
	var confirmedAt *time.Time
	if c := b.Confirmation(); c != nil {
		confirmationCode = &c.Code
		confirmedAt = &c.ConfirmedAt
		confirmedBy = &c.By
	}

	var cancellationReason, cancelledBy *string
	var cancelledAt *time.Time
	if c := b.Cancellation(); c != nil {
		cancellationReason = &c.Reason
		cancelledAt = &c.CancelledAt
		cancelledBy = &c.By
	}

	var snapshot []byte
	if s := b.GatewaySnapshot(); len(s) > 0 {
		snapshot = s
	}

	tag, err := tx.Exec(ctx, stmt,
		b.ID(),
		expected.String(),
		b.Status().String(),
		nullableString(p.OrderID),
		nullableString(p.SessionID),
		p.Status.String(),
		nullableString(p.TransactionID),
		p.PaidAt,
		nullableString(p.FailureReason),
		snapshot,
		confirmationCode,
		confirmedAt,
		confirmedBy,
		cancellationReason,
		cancelledAt,
		cancelledBy,
		b.UpdatedAt(),
	)
	if err != nil {
		return false, mapWriteErr("update booking", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepository) scanBooking(row pgx.Row, msg string) (*booking.Booking, error) {
	var (
		id, userID, groundID               uuid.UUID
		code, timeSlot, status, payStatus  string
		notes                              string
		bookedOn, createdAt, updatedAt     time.Time
		duration, playerCount              int
		amount                             int64
		orderID, sessionID, transactionID  *string
		paidAt, confirmedAt, cancelledAt   *time.Time
		failureReason, confCode, cancelWhy *string
		confirmedBy, cancelledBy           *string
		snapshot                           []byte
	)
	err := row.Scan(
		&id, &code, &userID, &groundID, &bookedOn, &timeSlot, &duration, &playerCount, &amount, &notes, &status,
		&orderID, &sessionID, &payStatus, &transactionID,
		&paidAt, &failureReason, &snapshot,
		&confCode, &confirmedAt, &confirmedBy,
		&cancelWhy, &cancelledAt, &cancelledBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, mapReadErr(msg, err)
	}

	payment := booking.Payment{
		OrderID:       deref(orderID),
		SessionID:     deref(sessionID),
		Status:        booking.PaymentStatus(payStatus),
		TransactionID: deref(transactionID),
		PaidAt:        paidAt,
		FailureReason: deref(failureReason),
	}

	var confirmation *booking.Confirmation
	if confCode != nil && confirmedAt != nil {
		confirmation = &booking.Confirmation{Code: *confCode, ConfirmedAt: *confirmedAt, By: deref(confirmedBy)}
	}

	var cancellation *booking.Cancellation
	if cancelWhy != nil && cancelledAt != nil {
		cancellation = &booking.Cancellation{Reason: *cancelWhy, CancelledAt: *cancelledAt, By: deref(cancelledBy)}
	}

	return booking.Reconstruct(booking.ReconstructParams{
		ID:              id,
		Code:            code,
		UserID:          userID,
		GroundID:        groundID,
		BookedOn:        bookedOn,
		TimeSlot:        timeSlot,
		Duration:        duration,
		PlayerCount:     playerCount,
		Amount:          amount,
		Notes:           notes,
		Status:          booking.Status(status),
		Payment:         payment,
		Confirmation:    confirmation,
		Cancellation:    cancellation,
		GatewaySnapshot: snapshot,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}), nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
