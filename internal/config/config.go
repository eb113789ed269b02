package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required"`

	Redis    Redis
	Database Database
	SMTP     SMTP
	CRM      CRM
	Admin    Admin

	ReportRateLimit  int64         `env:"REPORT_RATE_LIMIT" envDefault:"10"`
	ReportRateWindow time.Duration `env:"REPORT_RATE_WINDOW" envDefault:"1h"`
}

type Redis struct {
	Addr     string        `env:"REDIS_ADDR,required"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"24h"`
}

type Database struct {
	Host            string        `env:"DB_HOST,required"`
	Port            int           `env:"DB_PORT,required"`
	User            string        `env:"DB_USER,required"`
	Password        string        `env:"DB_PASSWORD,required"`
	Name            string        `env:"DB_NAME,required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// SMTP settings for report delivery. Leaving Host empty disables email.
type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// CRM settings for report forwarding. Leaving BaseURL empty disables it.
type CRM struct {
	BaseURL string `env:"CRM_BASE_URL"`
	APIKey  string `env:"CRM_API_KEY"`
}

type Admin struct {
	IDs       []int64 `env:"ADMIN_IDS" envSeparator:","`
	ChannelID int64   `env:"ADMIN_CHANNEL_ID"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SMTP.Host != "" && cfg.SMTP.From == "" {
		return nil, fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}

	return &cfg, nil
}
