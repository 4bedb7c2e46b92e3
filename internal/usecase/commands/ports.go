package commands

import (
	"context"
	"time"

	"boxcric-api/internal/domain/booking"
	"boxcric-api/internal/domain/ground"
	"boxcric-api/internal/domain/otp"
	"boxcric-api/internal/domain/user"
	"boxcric-api/internal/infra/db"

	"github.com/google/uuid"
)

// Gateway order statuses as Cashfree reports them.
const (
	GatewayStatusActive  = "ACTIVE"
	GatewayStatusPaid    = "PAID"
	GatewayStatusExpired = "EXPIRED"
	GatewayStatusFailed  = "FAILED"
)

type CreateOrderParams struct {
	OrderID       string
	Amount        int64 // paise
	Currency      string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ReturnURL     string
	NotifyURL     string
}

type GatewayOrder struct {
	OrderID          string
	PaymentSessionID string
	Status           string
	TransactionID    string
	// Raw is the gateway's response body verbatim, stored with the
	// booking when this order settles it.
	Raw []byte
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, p CreateOrderParams) (*GatewayOrder, error)
	GetOrder(ctx context.Context, orderID string) (*GatewayOrder, error)
}

type Mailer interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	// IncrementBookings bumps the user's denormalized booking counter.
	IncrementBookings(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	RecordLogin(ctx context.Context, tx db.DBTX, id uuid.UUID, at time.Time) error
}

type OTPRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *otp.OTP) error
	// FindLatest returns the newest unused OTP for the address and purpose.
	FindLatest(ctx context.Context, email string, purpose otp.Purpose) (*otp.OTP, error)
	MarkUsed(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type GroundRepository interface {
	Create(ctx context.Context, tx db.DBTX, g *ground.Ground) error
	FindByID(ctx context.Context, id uuid.UUID) (*ground.Ground, error)
	Update(ctx context.Context, tx db.DBTX, g *ground.Ground) error
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) (*booking.Booking, error)
	// Update persists the entity's current state guarded by the status the
	// caller loaded it with. It reports false when the guard missed, which
	// means someone else transitioned the row first.
	Update(ctx context.Context, tx db.DBTX, b *booking.Booking, expected booking.Status) (bool, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}
