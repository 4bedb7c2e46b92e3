package queries

import (
	"context"

	"boxcric-api/internal/pkg/errs"

	"github.com/google/uuid"
)

// AdminBookingFilter narrows the back-office listing.
type AdminBookingFilter struct {
	Status   string
	GroundID *uuid.UUID
	Date     string
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
	FindAll(ctx context.Context, filter AdminBookingFilter, limit, offset int32) ([]*AdminBookingListItem, error)
}

type BookingQueries interface {
	// GetByID enforces ownership: only the booking's owner or an admin
	// may read it.
	GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*BookingView, error)
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BookingListItem, error)
	ListAll(ctx context.Context, filter AdminBookingFilter, limit, offset int) ([]*AdminBookingListItem, error)
}

var ErrBookingAccessDenied = errs.New("booking access denied")

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*BookingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.UserID != actorID {
		return nil, ErrBookingAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.readStore.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return q.readStore.FindByUser(ctx, userID, int32(limit), int32(offset))
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, filter AdminBookingFilter, limit, offset int) ([]*AdminBookingListItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return q.readStore.FindAll(ctx, filter, int32(limit), int32(offset))
}
