package repository

import (
	"context"
	"time"

	"boxcric-api/internal/domain/ground"
	"boxcric-api/internal/infra"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroundRepository struct {
	pool *pgxpool.Pool
}

func NewGroundRepository(pool *pgxpool.Pool) commands.GroundRepository {
	return &GroundRepository{pool: pool}
}

func (r *GroundRepository) Create(ctx context.Context, tx db.DBTX, g *ground.Ground) error {
	const stmt = `
INSERT INTO grounds (
	id, owner_id, location_id, name, description, address,
	price_per_hour, capacity, pitch_type, amenities, images, time_slots,
	is_active, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := tx.Exec(ctx, stmt,
		g.ID(),
		g.OwnerID(),
		g.LocationID(),
		g.Name(),
		g.Description(),
		g.Address(),
		g.PricePerHour(),
		g.Capacity(),
		g.PitchType(),
		g.Amenities(),
		g.Images(),
		g.TimeSlots(),
		g.IsActive(),
		g.CreatedAt(),
		g.UpdatedAt(),
	)
	if err != nil {
		return mapWriteErr("create ground", err)
	}
	return nil
}

func (r *GroundRepository) FindByID(ctx context.Context, id uuid.UUID) (*ground.Ground, error) {
	const query = `
SELECT id, owner_id, location_id, name, description, address,
	price_per_hour, capacity, pitch_type, amenities, images, time_slots,
	is_active, created_at, updated_at
FROM grounds
WHERE id = $1`

	var (
		gid, ownerID, locationID              uuid.UUID
		name, description, address, pitchType string
		pricePerHour                          int64
		capacity                              int
		amenities, images, timeSlots          []string
		isActive                              bool
		createdAt, updatedAt                  time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&gid, &ownerID, &locationID, &name, &description, &address,
		&pricePerHour, &capacity, &pitchType, &amenities, &images, &timeSlots,
		&isActive, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, mapReadErr("find ground", err)
	}

	return ground.Reconstruct(ground.ReconstructParams{
		ID:           gid,
		OwnerID:      ownerID,
		LocationID:   locationID,
		Name:         name,
		Description:  description,
		Address:      address,
		PricePerHour: pricePerHour,
		Capacity:     capacity,
		PitchType:    pitchType,
		Amenities:    amenities,
		Images:       images,
		TimeSlots:    timeSlots,
		IsActive:     isActive,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}), nil
}

func (r *GroundRepository) Update(ctx context.Context, tx db.DBTX, g *ground.Ground) error {
	const stmt = `
UPDATE grounds SET
	name = $2, description = $3, address = $4, price_per_hour = $5,
	capacity = $6, pitch_type = $7, amenities = $8, images = $9,
	time_slots = $10, is_active = $11, updated_at = $12
WHERE id = $1`

	tag, err := tx.Exec(ctx, stmt,
		g.ID(),
		g.Name(),
		g.Description(),
		g.Address(),
		g.PricePerHour(),
		g.Capacity(),
		g.PitchType(),
		g.Amenities(),
		g.Images(),
		g.TimeSlots(),
		g.IsActive(),
		g.UpdatedAt(),
	)
	if err != nil {
		return mapWriteErr("update ground", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("update ground: no rows", nil, infra.KindNotFound)
	}
	return nil
}
