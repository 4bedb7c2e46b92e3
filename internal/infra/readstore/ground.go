package readstore

import (
	"context"
	"fmt"
	"strings"

	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroundReadStore struct {
	pool *pgxpool.Pool
}

func NewGroundReadStore(pool *pgxpool.Pool) queries.GroundReadStore {
	return &GroundReadStore{pool: pool}
}

func (s *GroundReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.GroundView, error) {
	const query = `
SELECT g.id, g.owner_id, g.location_id, l.city, g.name, g.description, g.address,
	g.price_per_hour, g.capacity, g.pitch_type, g.amenities, g.images, g.time_slots,
	g.is_active, g.created_at, g.updated_at
FROM grounds g
JOIN locations l ON l.id = g.location_id
WHERE g.id = $1`

	var v queries.GroundView
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.OwnerID, &v.LocationID, &v.City, &v.Name, &v.Description, &v.Address,
		&v.PricePerHour, &v.Capacity, &v.PitchType, &v.Amenities, &v.Images, &v.TimeSlots,
		&v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, mapReadErr("find ground view", err)
	}
	return &v, nil
}

func (s *GroundReadStore) FindActive(ctx context.Context, filter queries.GroundFilter, limit, offset int32) ([]*queries.GroundListItem, error) {
	var (
		conds = []string{"g.is_active = TRUE"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.LocationID != nil {
		conds = append(conds, "g.location_id = "+arg(*filter.LocationID))
	}
	if filter.MaxPrice > 0 {
		conds = append(conds, "g.price_per_hour <= "+arg(filter.MaxPrice))
	}
	if filter.PitchType != "" {
		conds = append(conds, "g.pitch_type = "+arg(filter.PitchType))
	}

	query := `
SELECT g.id, g.location_id, l.city, g.name, g.price_per_hour, g.capacity,
	g.pitch_type, g.images, g.is_active
FROM grounds g
JOIN locations l ON l.id = g.location_id
WHERE ` + strings.Join(conds, " AND ") + `
ORDER BY g.name
LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapReadErr("list grounds", err)
	}
	defer rows.Close()

	var items []*queries.GroundListItem
	for rows.Next() {
		var it queries.GroundListItem
		if err := rows.Scan(
			&it.ID, &it.LocationID, &it.City, &it.Name, &it.PricePerHour, &it.Capacity,
			&it.PitchType, &it.Images, &it.IsActive,
		); err != nil {
			return nil, mapReadErr("scan ground", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr("iterate grounds", err)
	}
	return items, nil
}

func (s *GroundReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*queries.GroundListItem, error) {
	const query = `
SELECT g.id, g.location_id, l.city, g.name, g.price_per_hour, g.capacity,
	g.pitch_type, g.images, g.is_active
FROM grounds g
JOIN locations l ON l.id = g.location_id
WHERE g.owner_id = $1
ORDER BY g.created_at DESC`

	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapReadErr("list owner grounds", err)
	}
	defer rows.Close()

	var items []*queries.GroundListItem
	for rows.Next() {
		var it queries.GroundListItem
		if err := rows.Scan(
			&it.ID, &it.LocationID, &it.City, &it.Name, &it.PricePerHour, &it.Capacity,
			&it.PitchType, &it.Images, &it.IsActive,
		); err != nil {
			return nil, mapReadErr("scan ground", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr("iterate grounds", err)
	}
	return items, nil
}

func (s *GroundReadStore) BookedSlots(ctx context.Context, groundID uuid.UUID, bookedOn string) ([]string, error) {
	const query = `
SELECT time_slot
FROM bookings
WHERE ground_id = $1 AND booked_on = $2 AND status IN ('pending', 'confirmed')
ORDER BY time_slot`

	rows, err := s.pool.Query(ctx, query, groundID, bookedOn)
	if err != nil {
		return nil, mapReadErr("list booked slots", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, mapReadErr("scan slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadErr("iterate slots", err)
	}
	return slots, nil
}
