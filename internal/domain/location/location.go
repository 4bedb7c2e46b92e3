package location

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidCity = errors.New("city is required")

// Location is a serviceable city. Grounds hang off a location and the
// public listing is filtered by it.
type Location struct {
	id        uuid.UUID
	city      string
	state     string
	isActive  bool
	createdAt time.Time
}

func New(city, state string, now time.Time) (*Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrInvalidCity
	}
	return &Location{
		id:        uuid.New(),
		city:      city,
		state:     strings.TrimSpace(state),
		isActive:  true,
		createdAt: now,
	}, nil
}

func Reconstruct(id uuid.UUID, city, state string, isActive bool, createdAt time.Time) *Location {
	return &Location{
		id:        id,
		city:      city,
		state:     state,
		isActive:  isActive,
		createdAt: createdAt,
	}
}

func (l *Location) ID() uuid.UUID        { return l.id }
func (l *Location) City() string         { return l.city }
func (l *Location) State() string        { return l.state }
func (l *Location) IsActive() bool       { return l.isActive }
func (l *Location) CreatedAt() time.Time { return l.createdAt }
