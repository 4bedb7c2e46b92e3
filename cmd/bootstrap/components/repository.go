package components

import (
	"boxcric-api/internal/infra/readstore"
	repo_impl "boxcric-api/internal/infra/repository"
	"boxcric-api/internal/usecase/commands"
	"boxcric-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repo_impl.NewUserRepository,
		repo_impl.NewOTPRepository,
		repo_impl.NewGroundRepository,
		repo_impl.NewBookingRepository,
		repo_impl.NewNotificationRepository,
		repo_impl.NewLocationRepository,

		// Read-side stores for queries
		readstore.NewUserReadStore,
		readstore.NewGroundReadStore,
		readstore.NewBookingReadStore,
		readstore.NewLocationReadStore,

		// The payment flow only needs to look customers up
		func(s queries.UserReadStore) commands.CustomerDirectory { return s },
	),
)
