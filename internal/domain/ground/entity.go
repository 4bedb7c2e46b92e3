package ground

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidName     = errors.New("ground name is required")
	ErrInvalidRate     = errors.New("hourly rate must be positive")
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrNotOwner        = errors.New("ground does not belong to this owner")
)

type Ground struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	locationID  uuid.UUID
	name        string
	description string
	address     string
	// pricePerHour is in paise.
	pricePerHour int64
	capacity     int
	pitchType    string
	amenities    []string
	images       []string
	timeSlots    []string
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

type NewGroundParams struct {
	OwnerID      uuid.UUID
	LocationID   uuid.UUID
	Name         string
	Description  string
	Address      string
	PricePerHour int64
	Capacity     int
	PitchType    string
	Amenities    []string
	Images       []string
	TimeSlots    []string
}

func NewGround(p NewGroundParams) (*Ground, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if p.PricePerHour <= 0 {
		return nil, ErrInvalidRate
	}
	if p.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	slots := p.TimeSlots
	if len(slots) == 0 {
		slots = append([]string(nil), DefaultTimeSlots...)
	} else {
		for _, s := range slots {
			if !IsDefaultSlot(s) {
				return nil, ErrInvalidTimeSlot
			}
		}
	}

	now := time.Now()
	return &Ground{
		id:           uuid.New(),
		ownerID:      p.OwnerID,
		locationID:   p.LocationID,
		name:         name,
		description:  p.Description,
		address:      p.Address,
		pricePerHour: p.PricePerHour,
		capacity:     p.Capacity,
		pitchType:    p.PitchType,
		amenities:    p.Amenities,
		images:       p.Images,
		timeSlots:    slots,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type ReconstructParams struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	LocationID   uuid.UUID
	Name         string
	Description  string
	Address      string
	PricePerHour int64
	Capacity     int
	PitchType    string
	Amenities    []string
	Images       []string
	TimeSlots    []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func Reconstruct(p ReconstructParams) *Ground {
	return &Ground{
		id:           p.ID,
		ownerID:      p.OwnerID,
		locationID:   p.LocationID,
		name:         p.Name,
		description:  p.Description,
		address:      p.Address,
		pricePerHour: p.PricePerHour,
		capacity:     p.Capacity,
		pitchType:    p.PitchType,
		amenities:    p.Amenities,
		images:       p.Images,
		timeSlots:    p.TimeSlots,
		isActive:     p.IsActive,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}
}

func (g *Ground) ID() uuid.UUID         { return g.id }
func (g *Ground) OwnerID() uuid.UUID    { return g.ownerID }
func (g *Ground) LocationID() uuid.UUID { return g.locationID }
func (g *Ground) Name() string          { return g.name }
func (g *Ground) Description() string   { return g.description }
func (g *Ground) Address() string       { return g.address }
func (g *Ground) PricePerHour() int64   { return g.pricePerHour }
func (g *Ground) Capacity() int         { return g.capacity }
func (g *Ground) PitchType() string     { return g.pitchType }
func (g *Ground) Amenities() []string   { return g.amenities }
func (g *Ground) Images() []string      { return g.images }
func (g *Ground) TimeSlots() []string   { return g.timeSlots }
func (g *Ground) IsActive() bool        { return g.isActive }
func (g *Ground) CreatedAt() time.Time  { return g.createdAt }
func (g *Ground) UpdatedAt() time.Time  { return g.updatedAt }

func (g *Ground) IsOwnedBy(userID uuid.UUID) bool {
	return g.ownerID == userID
}

func (g *Ground) HasSlot(slot string) bool {
	for _, s := range g.timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type UpdateGroundParams struct {
	Name         *string
	Description  *string
	Address      *string
	PricePerHour *int64
	Capacity     *int
	PitchType    *string
	Amenities    []string
	Images       []string
	IsActive     *bool
}

func (g *Ground) Update(p UpdateGroundParams) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrInvalidName
		}
		g.name = name
	}
	if p.Description != nil {
		g.description = *p.Description
	}
	if p.Address != nil {
		g.address = *p.Address
	}
	if p.PricePerHour != nil {
		if *p.PricePerHour <= 0 {
			return ErrInvalidRate
		}
		g.pricePerHour = *p.PricePerHour
	}
	if p.Capacity != nil {
		if *p.Capacity <= 0 {
			return ErrInvalidCapacity
		}
		g.capacity = *p.Capacity
	}
	if p.PitchType != nil {
		g.pitchType = *p.PitchType
	}
	if p.Amenities != nil {
		g.amenities = p.Amenities
	}
	if p.Images != nil {
		g.images = p.Images
	}
	if p.IsActive != nil {
		g.isActive = *p.IsActive
	}
	g.updatedAt = time.Now()
	return nil
}
