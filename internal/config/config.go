package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"APP_ENV" envDefault:"local"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY,required"`
	PrimaryModel  string `env:"GEMINI_PRIMARY_MODEL" envDefault:"gemini-2.5-pro"`
	FallbackModel string `env:"GEMINI_FALLBACK_MODEL" envDefault:"gemini-2.5-flash"`

	// Resilience tuning for the AI gateway.
	RetryMaxAttempts int           `env:"LLM_RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay   time.Duration `env:"LLM_RETRY_BASE_DELAY" envDefault:"2s"`
	RetryMaxJitter   time.Duration `env:"LLM_RETRY_MAX_JITTER" envDefault:"1500ms"`
	MinCallInterval  time.Duration `env:"LLM_MIN_CALL_INTERVAL" envDefault:"2500ms"`

	Photo PhotoConfig

	// Affiliate partner identifiers; blank tags simply omit the parameter.
	AmazonTag    string `env:"AFFILIATE_AMAZON_TAG"`
	HomeDepotTag string `env:"AFFILIATE_HOMEDEPOT_TAG"`
	LowesTag     string `env:"AFFILIATE_LOWES_TAG"`
	AceTag       string `env:"AFFILIATE_ACE_TAG"`
}

// PhotoConfig points at the S3-compatible store for uploaded photos. In the
// local environment it defaults to the compose minio container.
type PhotoConfig struct {
	Enabled   bool   `env:"PHOTO_STORE_ENABLED" envDefault:"true"`
	Endpoint  string `env:"PHOTO_S3_ENDPOINT"`
	Region    string `env:"PHOTO_S3_REGION" envDefault:"us-east-1"`
	AccessKey string `env:"PHOTO_S3_ACCESS_KEY"`
	SecretKey string `env:"PHOTO_S3_SECRET_KEY"`
	Bucket    string `env:"PHOTO_S3_BUCKET" envDefault:"homewise-photos"`
	UseSSL    bool   `env:"PHOTO_S3_USE_SSL" envDefault:"true"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	if strings.EqualFold(cfg.Env, "local") {
		applyLocalDefaults(cfg)
	}
	return cfg, nil
}

func applyLocalDefaults(cfg *Config) {
	cfg.Photo.UseSSL = false
	if cfg.Photo.Endpoint == "" {
		cfg.Photo.Endpoint = "minio:9000"
	}
	if cfg.Photo.AccessKey == "" {
		cfg.Photo.AccessKey = "homewise"
	}
	if cfg.Photo.SecretKey == "" {
		cfg.Photo.SecretKey = "homewise123"
	}
}
