package booking

import (
	"time"

	"github.com/google/uuid"
)

// Payment is the gateway-facing sub-record of a booking. OrderID and
// SessionID are assigned when an order is opened at the gateway.
type Payment struct {
	OrderID       string
	SessionID     string
	Status        PaymentStatus
	TransactionID string
	PaidAt        *time.Time
	FailureReason string
}

type Confirmation struct {
	Code        string
	ConfirmedAt time.Time
	By          string
}

type Cancellation struct {
	Reason      string
	CancelledAt time.Time
	By          string
}

type Booking struct {
	id           uuid.UUID
	code         string
	userID       uuid.UUID
	groundID     uuid.UUID
	bookedOn     time.Time
	timeSlot     string
	duration     int
	playerCount  int
	amount       int64
	notes        string
	status       Status
	payment      Payment
	confirmation *Confirmation
	cancellation *Cancellation
	// Raw gateway response that drove the last settlement, kept for audit.
	gatewaySnapshot []byte
	createdAt       time.Time
	updatedAt       time.Time
}

type NewBookingParams struct {
	UserID      uuid.UUID
	GroundID    uuid.UUID
	BookedOn    time.Time
	TimeSlot    string
	Duration    int
	PlayerCount int
	Amount      int64
	Notes       string
	Now         time.Time
}

func NewBooking(p NewBookingParams) (*Booking, error) {
	if p.TimeSlot == "" {
		return nil, ErrInvalidSlot
	}
	if p.Duration < 1 {
		return nil, ErrInvalidDuration
	}
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	bookedOn := truncateToDate(p.BookedOn)
	if bookedOn.Before(truncateToDate(p.Now)) {
		return nil, ErrPastDate
	}

	return &Booking{
		id:          uuid.New(),
		code:        NewBookingCode(p.Now),
		userID:      p.UserID,
		groundID:    p.GroundID,
		bookedOn:    bookedOn,
		timeSlot:    p.TimeSlot,
		duration:    p.Duration,
		playerCount: p.PlayerCount,
		amount:      p.Amount,
		notes:       p.Notes,
		status:      StatusPending,
		payment:     Payment{Status: PaymentPending},
		createdAt:   p.Now,
		updatedAt:   p.Now,
	}, nil
}

type ReconstructParams struct {
	ID              uuid.UUID
	Code            string
	UserID          uuid.UUID
	GroundID        uuid.UUID
	BookedOn        time.Time
	TimeSlot        string
	Duration        int
	PlayerCount     int
	Amount          int64
	Notes           string
	Status          Status
	Payment         Payment
	Confirmation    *Confirmation
	Cancellation    *Cancellation
	GatewaySnapshot []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func Reconstruct(p ReconstructParams) *Booking {
	return &Booking{
		id:              p.ID,
		code:            p.Code,
		userID:          p.UserID,
		groundID:        p.GroundID,
		bookedOn:        p.BookedOn,
		timeSlot:        p.TimeSlot,
		duration:        p.Duration,
		playerCount:     p.PlayerCount,
		amount:          p.Amount,
		notes:           p.Notes,
		status:          p.Status,
		payment:         p.Payment,
		confirmation:    p.Confirmation,
		cancellation:    p.Cancellation,
		gatewaySnapshot: p.GatewaySnapshot,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) Code() string                { return b.code }
func (b *Booking) UserID() uuid.UUID           { return b.userID }
func (b *Booking) GroundID() uuid.UUID         { return b.groundID }
func (b *Booking) BookedOn() time.Time         { return b.bookedOn }
func (b *Booking) TimeSlot() string            { return b.timeSlot }
func (b *Booking) Duration() int               { return b.duration }
func (b *Booking) PlayerCount() int            { return b.playerCount }
func (b *Booking) Amount() int64               { return b.amount }
func (b *Booking) Notes() string               { return b.notes }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) Payment() Payment            { return b.payment }
func (b *Booking) Confirmation() *Confirmation { return b.confirmation }
func (b *Booking) Cancellation() *Cancellation { return b.cancellation }
func (b *Booking) GatewaySnapshot() []byte     { return b.gatewaySnapshot }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }

// RecordGatewayResponse keeps the raw gateway payload that is about to
// drive a transition. Empty payloads leave the previous snapshot alone.
func (b *Booking) RecordGatewayResponse(raw []byte) {
	if len(raw) > 0 {
		b.gatewaySnapshot = raw
	}
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// AttachOrder records the gateway order opened for this booking.
// Re-attaching replaces the previous order so a retried payment starts
// clean, but only while the payment is still pending.
func (b *Booking) AttachOrder(orderID, sessionID string) error {
	if b.payment.Status != PaymentPending {
		return ErrStateConflict
	}
	b.payment.OrderID = orderID
	b.payment.SessionID = sessionID
	return nil
}

// Confirm settles the payment and confirms the booking. Calling it on
// an already-confirmed booking is a no-op so a verify call and the
// webhook can both land without clobbering the original confirmation.
func (b *Booking) Confirm(transactionID, actor string, now time.Time) error {
	switch b.status {
	case StatusConfirmed:
		return nil
	case StatusCancelled, StatusCompleted:
		return ErrStateConflict
	}

	paidAt := now
	b.payment.Status = PaymentCompleted
	b.payment.TransactionID = transactionID
	b.payment.PaidAt = &paidAt
	b.status = StatusConfirmed
	b.confirmation = &Confirmation{
		Code:        NewConfirmationCode(now),
		ConfirmedAt: now,
		By:          actor,
	}
	b.updatedAt = now
	return nil
}

// FailPayment cancels a booking whose payment did not go through.
// Already-cancelled bookings pass through untouched; a confirmed
// booking cannot be failed after the fact.
func (b *Booking) FailPayment(reason, actor string, now time.Time) error {
	switch b.status {
	case StatusCancelled:
		return nil
	case StatusConfirmed, StatusCompleted:
		return ErrStateConflict
	}

	b.payment.Status = PaymentFailed
	b.payment.FailureReason = reason
	b.status = StatusCancelled
	b.cancellation = &Cancellation{
		Reason:      reason,
		CancelledAt: now,
		By:          actor,
	}
	b.updatedAt = now
	return nil
}

// CancelByUser is the customer-initiated cancellation. Unlike
// FailPayment it reports an already-cancelled booking as an error so
// the caller can surface it.
func (b *Booking) CancelByUser(now time.Time) error {
	switch b.status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCompleted:
		return ErrStateConflict
	}

	b.status = StatusCancelled
	b.cancellation = &Cancellation{
		Reason:      CancelReasonUserRequested,
		CancelledAt: now,
		By:          ActorUser,
	}
	b.updatedAt = now
	return nil
}

// Complete marks a confirmed booking as played out.
func (b *Booking) Complete(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrStateConflict
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
