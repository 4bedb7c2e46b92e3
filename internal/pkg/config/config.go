package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, gateway credentials)
// - default: Values common across all environments (timezone, timeout, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cashfree CashfreeConfig
	SMTP     SMTPConfig
	OTP      OTPConfig
}

type ServerConfig struct {
	Port    string `envconfig:"PORT" required:"true"`
	BaseURL string `envconfig:"SERVER_BASE_URL" default:"http://localhost:3001"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5*60*60 + 30*60
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
	// Duration of the access token issued on login / verified registration.
	Duration string `envconfig:"JWT_DURATION" default:"168h"`
	// Duration of the short-lived registration token that carries the
	// pending signup payload between /register and /verify-registration.
	RegistrationDuration string `envconfig:"JWT_REGISTRATION_DURATION" default:"15m"`
}

type CashfreeConfig struct {
	AppID      string        `envconfig:"CASHFREE_APP_ID" required:"true"`
	SecretKey  string        `envconfig:"CASHFREE_SECRET_KEY" required:"true"`
	APIURL     string        `envconfig:"CASHFREE_API_URL" default:"https://api.cashfree.com/pg"`
	SandboxURL string        `envconfig:"CASHFREE_SANDBOX_URL" default:"https://sandbox.cashfree.com/pg"`
	Sandbox    bool          `envconfig:"CASHFREE_SANDBOX" default:"false"`
	APIVersion string        `envconfig:"CASHFREE_API_VERSION" default:"2023-08-01"`
	Timeout    time.Duration `envconfig:"CASHFREE_TIMEOUT" default:"15s"`
	// Shared secret for inbound webhook signatures. Separate from the API
	// secret so it can be rotated independently.
	WebhookSecret string `envconfig:"CASHFREE_WEBHOOK_SECRET" required:"true"`
}

// BaseURL returns the gateway endpoint for the configured mode.
func (c *CashfreeConfig) BaseURL() string {
	if c.Sandbox {
		return c.SandboxURL
	}
	return c.APIURL
}

type SMTPConfig struct {
	Host     string `envconfig:"EMAIL_HOST" default:""`
	Port     string `envconfig:"EMAIL_PORT" default:"587"`
	User     string `envconfig:"EMAIL_USER" default:""`
	Password string `envconfig:"EMAIL_PASS" default:""`
	From     string `envconfig:"EMAIL_FROM" default:"no-reply@boxcric.local"`
}

// Configured reports whether real email delivery is possible. When false the
// mailer falls back to logging codes, which is the development behavior.
func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Password != ""
}

type OTPConfig struct {
	TTL time.Duration `envconfig:"OTP_TTL" default:"10m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8889", // Test port
			BaseURL: "http://localhost:8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
			MaxConns: 5,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:               "test-secret",
			Duration:             "1h",
			RegistrationDuration: "15m",
		},
		Cashfree: CashfreeConfig{
			AppID:         "test-app-id",
			SecretKey:     "test-secret-key",
			APIURL:        "https://api.cashfree.com/pg",
			SandboxURL:    "https://sandbox.cashfree.com/pg",
			Sandbox:       true,
			APIVersion:    "2023-08-01",
			Timeout:       5 * time.Second,
			WebhookSecret: "test-webhook-secret",
		},
		OTP: OTPConfig{TTL: 10 * time.Minute},
	}
}
