package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"boxcric-api/internal/domain/booking"
	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/infra"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/pkg/clock"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrGroundNotFound          = errs.New("ground not found")
	ErrGroundInactive          = errs.New("ground is not active")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrNotOwner                = errs.New("booking does not belong to this user")
	ErrSlotTaken               = errs.New("time slot already booked")
	ErrInvalidSlot             = errs.New("time slot not offered by this ground")
	ErrAlreadyCancelled        = errs.New("booking already cancelled")
	ErrStateConflict           = errs.New("booking state conflict")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, userID uuid.UUID) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*queries.BookingView, error)
	// OverrideStatus is the admin escape hatch for stuck bookings.
	OverrideStatus(ctx context.Context, bookingID uuid.UUID, status booking.Status) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	bookingRepo      BookingRepository
	groundRepo       GroundRepository
	userRepo         UserRepository
	notificationRepo NotificationRepository
	bookingQueries   queries.BookingQueries
	db               db.Pool
	clock            clock.Clock
}

func NewBookingCommands(
	bookingRepo BookingRepository,
	groundRepo GroundRepository,
	userRepo UserRepository,
	notificationRepo NotificationRepository,
	bookingQueries queries.BookingQueries,
	db db.Pool,
	clock clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		bookingRepo:      bookingRepo,
		groundRepo:       groundRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		bookingQueries:   bookingQueries,
		db:               db,
		clock:            clock,
	}
}

func (b *bookingCommandsImpl) CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, userID uuid.UUID) (*queries.BookingView, error) {
	groundEntity, err := b.groundRepo.FindByID(ctx, req.GroundID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrGroundNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !groundEntity.IsActive() {
		return nil, ErrGroundInactive
	}
	if !groundEntity.HasSlot(req.TimeSlot) {
		return nil, ErrInvalidSlot
	}

	bookedOn, err := req.Date()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	duration := req.Duration
	if duration == 0 {
		duration = 1
	}

	newBooking, err := booking.NewBooking(booking.NewBookingParams{
		UserID:      userID,
		GroundID:    groundEntity.ID(),
		BookedOn:    bookedOn,
		TimeSlot:    req.TimeSlot,
		Duration:    duration,
		PlayerCount: req.PlayerCount,
		Amount:      groundEntity.PricePerHour() * int64(duration),
		Notes:       req.Notes,
		Now:         b.clock.Now(),
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rollbackErr)
		}
	}()

	if err := b.bookingRepo.Create(ctx, tx, newBooking); err != nil {
		// The partial unique index on blocking bookings turns the slot
		// race into a duplicate key, regardless of who checked first.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrSlotTaken
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := b.userRepo.IncrementBookings(ctx, tx, userID); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := b.enqueueBookingEvent(ctx, tx, newBooking.ID(), "booking_created"); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := b.bookingQueries.GetByIDSystem(ctx, newBooking.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (b *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*queries.BookingView, error) {
	entity, err := b.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !entity.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}

	expected := entity.Status()
	if err := entity.CancelByUser(b.clock.Now()); err != nil {
		switch {
		case errors.Is(err, booking.ErrAlreadyCancelled):
			return nil, ErrAlreadyCancelled
		default:
			return nil, errs.Mark(err, ErrStateConflict)
		}
	}

	if err := b.persistTransition(ctx, entity, expected); err != nil {
		return nil, err
	}

	return b.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (b *bookingCommandsImpl) OverrideStatus(ctx context.Context, bookingID uuid.UUID, status booking.Status) (*queries.BookingView, error) {
	entity, err := b.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	expected := entity.Status()
	now := b.clock.Now()

	var transitionErr error
	switch status {
	case booking.StatusConfirmed:
		transitionErr = entity.Confirm(entity.Payment().TransactionID, booking.ActorAdmin, now)
	case booking.StatusCancelled:
		transitionErr = entity.FailPayment(booking.CancelReasonPaymentFailed, booking.ActorAdmin, now)
	case booking.StatusCompleted:
		transitionErr = entity.Complete(now)
	default:
		return nil, ErrDomainValidation
	}
	if transitionErr != nil {
		return nil, errs.Mark(transitionErr, ErrStateConflict)
	}

	if entity.Status() != expected {
		if err := b.persistTransition(ctx, entity, expected); err != nil {
			return nil, err
		}
	}

	return b.bookingQueries.GetByIDSystem(ctx, bookingID)
}

func (b *bookingCommandsImpl) loadBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	entity, err := b.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, nil
}

// persistTransition writes the entity guarded by the status it was loaded
// with. A missed guard means a concurrent writer got there first: if it
// landed on the same status the transition already happened and we are
// done, otherwise the two writers genuinely disagree.
func (b *bookingCommandsImpl) persistTransition(ctx context.Context, entity *booking.Booking, expected booking.Status) error {
	updated, err := b.bookingRepo.Update(ctx, b.db, entity, expected)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if updated {
		return nil
	}

	current, err := b.bookingRepo.FindByID(ctx, entity.ID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if current.Status() == entity.Status() {
		return nil
	}
	return ErrStateConflict
}

func (b *bookingCommandsImpl) enqueueBookingEvent(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, topic string) error {
	payload, err := marshalBookingEvent(bookingID, topic)
	if err != nil {
		return err
	}
	return b.notificationRepo.CreateJob(ctx, tx, "email", topic, payload, b.clock.Now())
}

func marshalBookingEvent(bookingID uuid.UUID, topic string) ([]byte, error) {
	return json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
}
