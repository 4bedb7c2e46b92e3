package request

import "github.com/google/uuid"

type CreateGroundRequest struct {
	LocationID   uuid.UUID `json:"location_id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	Address      string    `json:"address" binding:"required"`
	PricePerHour int64     `json:"price_per_hour" binding:"required,gt=0"`
	Capacity     int       `json:"capacity" binding:"required,gt=0"`
	PitchType    string    `json:"pitch_type"`
	Amenities    []string  `json:"amenities"`
	Images       []string  `json:"images"`
	TimeSlots    []string  `json:"time_slots"`
}

type UpdateGroundRequest struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Address      *string  `json:"address,omitempty"`
	PricePerHour *int64   `json:"price_per_hour,omitempty"`
	Capacity     *int     `json:"capacity,omitempty"`
	PitchType    *string  `json:"pitch_type,omitempty"`
	Amenities    []string `json:"amenities,omitempty"`
	Images       []string `json:"images,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}
