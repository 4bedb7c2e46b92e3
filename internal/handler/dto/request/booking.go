package request

import (
	"time"

	"github.com/google/uuid"
)

const bookingDateLayout = "2006-01-02"

type CreateBookingRequest struct {
	GroundID    uuid.UUID `json:"ground_id" binding:"required"`
	BookedOn    string    `json:"booked_on" binding:"required"`
	TimeSlot    string    `json:"time_slot" binding:"required"`
	Duration    int       `json:"duration" binding:"gte=0,lte=16"` // slot multiples, 0 means 1
	PlayerCount int       `json:"player_count" binding:"gte=0"`
	Notes       string    `json:"notes" binding:"max=500"`
}

func (r CreateBookingRequest) Date() (time.Time, error) {
	return time.Parse(bookingDateLayout, r.BookedOn)
}
