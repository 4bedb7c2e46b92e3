package queries

import (
	"context"

	"github.com/google/uuid"
)

const defaultListLimit = 50

// GroundFilter narrows the public listing. Zero values mean "no filter".
type GroundFilter struct {
	LocationID *uuid.UUID
	Date       string
	MaxPrice   int64
	PitchType  string
}

type GroundReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*GroundView, error)
	FindActive(ctx context.Context, filter GroundFilter, limit, offset int32) ([]*GroundListItem, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*GroundListItem, error)
	// BookedSlots returns the slots already held by a blocking booking
	// for the ground on the given date.
	BookedSlots(ctx context.Context, groundID uuid.UUID, bookedOn string) ([]string, error)
}

type GroundAvailability struct {
	GroundID       uuid.UUID `json:"ground_id"`
	Date           string    `json:"date"`
	AvailableSlots []string  `json:"available_slots"`
	BookedSlots    []string  `json:"booked_slots"`
}

type GroundQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*GroundView, error)
	List(ctx context.Context, filter GroundFilter, limit, offset int) ([]*GroundListItem, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*GroundListItem, error)
	Availability(ctx context.Context, groundID uuid.UUID, date string) (*GroundAvailability, error)
}

type groundQueriesImpl struct {
	readStore GroundReadStore
}

func NewGroundQueries(readStore GroundReadStore) GroundQueries {
	return &groundQueriesImpl{readStore: readStore}
}

func (q *groundQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*GroundView, error) {
	return q.readStore.FindByID(ctx, id)
}

func (q *groundQueriesImpl) List(ctx context.Context, filter GroundFilter, limit, offset int) ([]*GroundListItem, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return q.readStore.FindActive(ctx, filter, int32(limit), int32(offset))
}

func (q *groundQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*GroundListItem, error) {
	return q.readStore.FindByOwner(ctx, ownerID)
}

func (q *groundQueriesImpl) Availability(ctx context.Context, groundID uuid.UUID, date string) (*GroundAvailability, error) {
	ground, err := q.readStore.FindByID(ctx, groundID)
	if err != nil {
		return nil, err
	}

	booked, err := q.readStore.BookedSlots(ctx, groundID, date)
	if err != nil {
		return nil, err
	}

	bookedSet := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		bookedSet[s] = struct{}{}
	}

	available := make([]string, 0, len(ground.TimeSlots))
	for _, s := range ground.TimeSlots {
		if _, taken := bookedSet[s]; !taken {
			available = append(available, s)
		}
	}

	return &GroundAvailability{
		GroundID:       groundID,
		Date:           date,
		AvailableSlots: available,
		BookedSlots:    booked,
	}, nil
}
