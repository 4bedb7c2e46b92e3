package booking

import "errors"

var (
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidAmount        = errors.New("booking amount must be positive")
	ErrInvalidDuration      = errors.New("booking duration must be at least one slot")
	ErrInvalidSlot          = errors.New("time slot is required")
	ErrPastDate             = errors.New("booking date is in the past")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrStateConflict        = errors.New("booking state does not allow this transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Blocking reports whether a booking in this status still holds its slot.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	default:
		return false
	}
}

func NewPaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(s)
	if !st.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return st, nil
}

const (
	CancelReasonPaymentFailed  = "Payment failed"
	CancelReasonPaymentExpired = "Payment expired"
	CancelReasonUserRequested  = "Cancelled by user"
)

// Actors recorded on confirmations and cancellations, so storage can
// tell a gateway-driven transition from a customer or admin one.
const (
	ActorSystem = "system"
	ActorUser   = "user"
	ActorAdmin  = "admin"
)
