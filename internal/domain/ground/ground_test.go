//go:build unit

package ground

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewGroundParams {
	return NewGroundParams{
		OwnerID:      uuid.New(),
		LocationID:   uuid.New(),
		Name:         "Marine Drive Arena",
		Description:  "Box cricket turf near the seafront",
		Address:      "12 Marine Drive, Mumbai",
		PricePerHour: 120000,
		Capacity:     12,
		PitchType:    "turf",
	}
}

func TestNewGround(t *testing.T) {
	t.Run("defaults to the full slot grid", func(t *testing.T) {
		g, err := NewGround(validParams())
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeSlots, g.TimeSlots())
		assert.True(t, g.IsActive())
	})

	t.Run("accepts a subset of default slots", func(t *testing.T) {
		p := validParams()
		p.TimeSlots = []string{"18:00-19:00", "19:00-20:00"}
		g, err := NewGround(p)
		require.NoError(t, err)
		assert.Len(t, g.TimeSlots(), 2)
		assert.True(t, g.HasSlot("18:00-19:00"))
		assert.False(t, g.HasSlot("06:00-07:00"))
	})

	t.Run("rejects slots off the grid", func(t *testing.T) {
		p := validParams()
		p.TimeSlots = []string{"18:30-19:30"}
		_, err := NewGround(p)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		p := validParams()
		p.Name = "  "
		_, err := NewGround(p)
		assert.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		p := validParams()
		p.PricePerHour = 0
		_, err := NewGround(p)
		assert.ErrorIs(t, err, ErrInvalidRate)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		p := validParams()
		p.Capacity = 0
		_, err := NewGround(p)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})
}

func TestGroundUpdate(t *testing.T) {
	g, err := NewGround(validParams())
	require.NoError(t, err)

	t.Run("partial update only touches given fields", func(t *testing.T) {
		rate := int64(150000)
		require.NoError(t, g.Update(UpdateGroundParams{PricePerHour: &rate}))
		assert.Equal(t, int64(150000), g.PricePerHour())
		assert.Equal(t, "Marine Drive Arena", g.Name())
	})

	t.Run("invalid rate leaves entity unchanged", func(t *testing.T) {
		rate := int64(-1)
		err := g.Update(UpdateGroundParams{PricePerHour: &rate})
		assert.ErrorIs(t, err, ErrInvalidRate)
		assert.Equal(t, int64(150000), g.PricePerHour())
	})

	t.Run("deactivate", func(t *testing.T) {
		inactive := false
		require.NoError(t, g.Update(UpdateGroundParams{IsActive: &inactive}))
		assert.False(t, g.IsActive())
	})
}

func TestDefaultTimeSlots(t *testing.T) {
	assert.Len(t, DefaultTimeSlots, 16)
	assert.Equal(t, "06:00-07:00", DefaultTimeSlots[0])
	assert.Equal(t, "21:00-22:00", DefaultTimeSlots[len(DefaultTimeSlots)-1])
}
