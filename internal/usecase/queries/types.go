package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type AuthorizedUserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LocationView struct {
	ID       uuid.UUID `json:"id"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	IsActive bool      `json:"is_active"`
}

type GroundView struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	LocationID   uuid.UUID `json:"location_id"`
	City         string    `json:"city"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	PricePerHour int64     `json:"price_per_hour"`
	Capacity     int32     `json:"capacity"`
	PitchType    string    `json:"pitch_type"`
	Amenities    []string  `json:"amenities"`
	Images       []string  `json:"images"`
	TimeSlots    []string  `json:"time_slots"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GroundListItem struct {
	ID           uuid.UUID `json:"id"`
	LocationID   uuid.UUID `json:"location_id"`
	City         string    `json:"city"`
	Name         string    `json:"name"`
	PricePerHour int64     `json:"price_per_hour"`
	Capacity     int32     `json:"capacity"`
	PitchType    string    `json:"pitch_type"`
	Images       []string  `json:"images"`
	IsActive     bool      `json:"is_active"`
}

type BookingPaymentView struct {
	OrderID       string     `json:"order_id,omitempty"`
	SessionID     string     `json:"session_id,omitempty"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
}

type BookingConfirmationView struct {
	Code        string    `json:"code"`
	ConfirmedAt time.Time `json:"confirmed_at"`
	ConfirmedBy string    `json:"confirmed_by,omitempty"`
}

type BookingCancellationView struct {
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
	CancelledBy string    `json:"cancelled_by,omitempty"`
}

type BookingView struct {
	ID           uuid.UUID                `json:"id"`
	Code         string                   `json:"code"`
	UserID       uuid.UUID                `json:"user_id"`
	GroundID     uuid.UUID                `json:"ground_id"`
	GroundName   string                   `json:"ground_name"`
	BookedOn     time.Time                `json:"booked_on"`
	TimeSlot     string                   `json:"time_slot"`
	Duration     int32                    `json:"duration"`
	PlayerCount  int32                    `json:"player_count"`
	Amount       int64                    `json:"amount"`
	Notes        string                   `json:"notes,omitempty"`
	Status       string                   `json:"status"`
	Payment      BookingPaymentView       `json:"payment"`
	Confirmation *BookingConfirmationView `json:"confirmation,omitempty"`
	Cancellation *BookingCancellationView `json:"cancellation,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

type BookingListItem struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	GroundID   uuid.UUID `json:"ground_id"`
	GroundName string    `json:"ground_name"`
	BookedOn   time.Time `json:"booked_on"`
	TimeSlot   string    `json:"time_slot"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type AdminBookingListItem struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	UserID     uuid.UUID `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	GroundName string    `json:"ground_name"`
	BookedOn   time.Time `json:"booked_on"`
	TimeSlot   string    `json:"time_slot"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
