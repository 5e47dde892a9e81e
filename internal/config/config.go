package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Port       uint16 `env:"PORT" envDefault:"9090"`
	Secret     string `env:"SECRET,required"`

	DatabaseConfig

	RedisURL    string `env:"REDIS_URL,required"`
	RabbitmqURL string `env:"RABBITMQ_URL,required"`

	RabbitmqPasswordResetQueue string `env:"RABBITMQ_PASSWORD_RESET_QUEUE" envDefault:"password-reset-requested"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	PasswordResetTTL                 time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
	PasswordResetRequestLimitPerHour uint16        `env:"PASSWORD_RESET_REQUEST_LIMIT_PER_HOUR" envDefault:"3"`
	LogInLimitPerHour                uint16        `env:"LOG_IN_LIMIT_PER_HOUR" envDefault:"10"`
	VerificationSweepPeriod          time.Duration `env:"VERIFICATION_SWEEP_PERIOD" envDefault:"10m"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	AwsConfig

	SentryDsn string `env:"SENTRY_DSN"`
}

// DatabaseConfig is all cmd/migrate needs.
type DatabaseConfig struct {
	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

// AwsConfig is all cmd/ses_templates needs.
type AwsConfig struct {
	AwsRegion                     string  `env:"AWS_REGION"`
	AwsAccessKey                  string  `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string  `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string  `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string  `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"password-reset"`
	AwsEmailPasswordResetBaseUrl  url.URL `env:"AWS_EMAIL_PASSWORD_RESET_BASE_URL"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadDatabase() (*DatabaseConfig, error) {
	cfg := &DatabaseConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadAws() (*AwsConfig, error) {
	cfg := &AwsConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PasswordResetTTL <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TTL must be positive, got %s", c.PasswordResetTTL)
	}
	if c.VerificationSweepPeriod <= 0 {
		return fmt.Errorf("VERIFICATION_SWEEP_PERIOD must be positive, got %s", c.VerificationSweepPeriod)
	}
	if c.PasswordResetRequestLimitPerHour == 0 {
		return fmt.Errorf("PASSWORD_RESET_REQUEST_LIMIT_PER_HOUR must be positive")
	}
	if c.LogInLimitPerHour == 0 {
		return fmt.Errorf("LOG_IN_LIMIT_PER_HOUR must be positive")
	}
	return nil
}
