package bootstrap

import (
	"boxcric-api/internal/infra/gateway/cashfree"
	"boxcric-api/internal/infra/mailer"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		cashfree.NewClient,
		mailer.NewMailer,
	),
)
