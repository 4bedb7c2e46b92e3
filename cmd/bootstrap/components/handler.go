package components

import (
	"boxcric-api/internal/handler"
	"boxcric-api/internal/handler/api"
	"boxcric-api/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewGroundHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewLocationHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
