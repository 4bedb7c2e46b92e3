package bootstrap

import (
	"boxcric-api/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.ServerConfig { return cfg.Server },
		func(cfg config.Config) config.CashfreeConfig { return cfg.Cashfree },
		func(cfg config.Config) config.SMTPConfig { return cfg.SMTP },
		func(cfg config.Config) config.OTPConfig { return cfg.OTP },
	),
)
