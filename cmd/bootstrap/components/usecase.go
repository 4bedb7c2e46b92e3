package components

import (
	"boxcric-api/internal/pkg/clock"
	"boxcric-api/internal/usecase/commands"
	"boxcric-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewLocationQueries,
		queries.NewGroundQueries,
		queries.NewBookingQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewGroundCommands,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
	),
)
