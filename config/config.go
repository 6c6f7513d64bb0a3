package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AdminEmail  string `env:"ADMIN_EMAIL" envDefault:"admin@stocknity.com"`
	HTTP        HTTP
	API         API
	Redis       Redis
	Session     Session
	Jobs        Jobs
	Telegram    Telegram
	GoogleDrive GoogleDrive
}

type HTTP struct {
	Addr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout    time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	RateLimitRPS   float64       `env:"HTTP_RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int           `env:"HTTP_RATE_LIMIT_BURST" envDefault:"30"`
}

type API struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:5001/api"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	Debug   bool          `env:"API_DEBUG" envDefault:"false"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Session struct {
	Expiration   time.Duration `env:"SESSION_EXPIRATION" envDefault:"24h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"stocknity_sid"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

type Jobs struct {
	StocksCachePollInterval        time.Duration `env:"STOCKS_CACHE_POLL_INTERVAL" envDefault:"30s"`
	AnnualReturnsCachePollInterval time.Duration `env:"ANNUAL_RETURNS_CACHE_POLL_INTERVAL" envDefault:"60s"`
	DeleteOldExportsCrontab        string        `env:"DELETE_OLD_EXPORTS_CRONTAB" envDefault:"0 * * * *"`
}

// Telegram bot is disabled when Token is empty.
type Telegram struct {
	Token      string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
}

// Drive upload is disabled when CredentialsFile is empty.
type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

func (t Telegram) Enabled() bool {
	return t.Token != ""
}

func (g GoogleDrive) Enabled() bool {
	return g.CredentialsFile != ""
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
