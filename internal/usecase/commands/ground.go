package commands

import (
	"context"

	"boxcric-api/internal/domain/ground"
	"boxcric-api/internal/domain/user"
	reqdto "boxcric-api/internal/handler/dto/request"
	"boxcric-api/internal/infra"
	"boxcric-api/internal/infra/db"
	"boxcric-api/internal/pkg/errs"
	"boxcric-api/internal/usecase/queries"

	"github.com/google/uuid"
)

var ErrGroundAccessDenied = errs.New("ground does not belong to this owner")

type GroundCommands interface {
	CreateGround(ctx context.Context, req reqdto.CreateGroundRequest, ownerID uuid.UUID) (*queries.GroundView, error)
	UpdateGround(ctx context.Context, groundID uuid.UUID, req reqdto.UpdateGroundRequest, actorID uuid.UUID, actorRole user.Role) (*queries.GroundView, error)
	DeactivateGround(ctx context.Context, groundID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error
}

type groundCommandsImpl struct {
	groundRepo    GroundRepository
	groundQueries queries.GroundQueries
	db            db.Pool
}

func NewGroundCommands(groundRepo GroundRepository, groundQueries queries.GroundQueries, db db.Pool) GroundCommands {
	return &groundCommandsImpl{
		groundRepo:    groundRepo,
		groundQueries: groundQueries,
		db:            db,
	}
}

func (g *groundCommandsImpl) CreateGround(ctx context.Context, req reqdto.CreateGroundRequest, ownerID uuid.UUID) (*queries.GroundView, error) {
	entity, err := ground.NewGround(ground.NewGroundParams{
		OwnerID:      ownerID,
		LocationID:   req.LocationID,
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		PricePerHour: req.PricePerHour,
		Capacity:     req.Capacity,
		PitchType:    req.PitchType,
		Amenities:    req.Amenities,
		Images:       req.Images,
		TimeSlots:    req.TimeSlots,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := g.groundRepo.Create(ctx, g.db, entity); err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrDomainValidation
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return g.groundQueries.GetByID(ctx, entity.ID())
}

func (g *groundCommandsImpl) UpdateGround(ctx context.Context, groundID uuid.UUID, req reqdto.UpdateGroundRequest, actorID uuid.UUID, actorRole user.Role) (*queries.GroundView, error) {
	entity, err := g.loadOwned(ctx, groundID, actorID, actorRole)
	if err != nil {
		return nil, err
	}

	if err := entity.Update(ground.UpdateGroundParams{
		Name:         req.Name,
		Description:  req.Description,
		Address:      req.Address,
		PricePerHour: req.PricePerHour,
		Capacity:     req.Capacity,
		PitchType:    req.PitchType,
		Amenities:    req.Amenities,
		Images:       req.Images,
		IsActive:     req.IsActive,
	}); err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := g.groundRepo.Update(ctx, g.db, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return g.groundQueries.GetByID(ctx, groundID)
}

func (g *groundCommandsImpl) DeactivateGround(ctx context.Context, groundID uuid.UUID, actorID uuid.UUID, actorRole user.Role) error {
	entity, err := g.loadOwned(ctx, groundID, actorID, actorRole)
	if err != nil {
		return err
	}

	inactive := false
	if err := entity.Update(ground.UpdateGroundParams{IsActive: &inactive}); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}
	if err := g.groundRepo.Update(ctx, g.db, entity); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (g *groundCommandsImpl) loadOwned(ctx context.Context, groundID, actorID uuid.UUID, actorRole user.Role) (*ground.Ground, error) {
	entity, err := g.groundRepo.FindByID(ctx, groundID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrGroundNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if actorRole != user.RoleAdmin && !entity.IsOwnedBy(actorID) {
		return nil, ErrGroundAccessDenied
	}
	return entity, nil
}
