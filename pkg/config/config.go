package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ARTISANHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	App        AppConfig
	Upstream   UpstreamConfig
	Session    SessionConfig
	Redis      RedisConfig
	Classifier ClassifierConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ARTISANHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTISANHUB_APP_PORT" default:"8081"`
	LogLevel     string `envconfig:"ARTISANHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARTISANHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// UpstreamConfig points the gateway at the AI backend.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"ARTISANHUB_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"ARTISANHUB_UPSTREAM_REQUEST_TIMEOUT" default:"60s"`
	ErrorBodyLimit int64         `envconfig:"ARTISANHUB_UPSTREAM_ERROR_BODY_LIMIT" default:"4096"`
	UserAgent      string        `envconfig:"ARTISANHUB_UPSTREAM_USER_AGENT" default:"artisanhub/1.0"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(u.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvUpstreamBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvUpstreamBaseURL)
	}
	if u.RequestTimeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvUpstreamRequestTimeout)
	}
	return nil
}

// SessionConfig controls viewer sessions (one per page load).
type SessionConfig struct {
	Store string        `envconfig:"ARTISANHUB_SESSION_STORE" default:"memory"`
	TTL   time.Duration `envconfig:"ARTISANHUB_SESSION_TTL" default:"30m"`
}

func (s SessionConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(s.Store), SessionStoreRedis)
}

func (s SessionConfig) validate(redisCfg RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Store)) {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if redisCfg.URL == "" && redisCfg.Address == "" {
			return fmt.Errorf("either %s or %s is required when %s=redis", EnvRedisURL, EnvRedisAddr, EnvSessionStore)
		}
	default:
		return fmt.Errorf("%s must be %q or %q", EnvSessionStore, SessionStoreMemory, SessionStoreRedis)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"ARTISANHUB_REDIS_URL"`
	Address      string        `envconfig:"ARTISANHUB_REDIS_ADDR"`
	Password     string        `envconfig:"ARTISANHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTISANHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTISANHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTISANHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTISANHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTISANHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTISANHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ClassifierConfig bounds the images the extension asks us to analyze.
type ClassifierConfig struct {
	MaxImageBytes     int64         `envconfig:"ARTISANHUB_CLASSIFIER_MAX_IMAGE_BYTES" default:"10485760"`
	MaxDimension      int           `envconfig:"ARTISANHUB_CLASSIFIER_MAX_DIMENSION" default:"1024"`
	JPEGQuality       int           `envconfig:"ARTISANHUB_CLASSIFIER_JPEG_QUALITY" default:"85"`
	ImageFetchTimeout time.Duration `envconfig:"ARTISANHUB_CLASSIFIER_FETCH_TIMEOUT" default:"15s"`
}

// RateLimitConfig throttles the endpoints that trigger paid generation upstream.
type RateLimitConfig struct {
	Window          time.Duration `envconfig:"ARTISANHUB_RATE_LIMIT_WINDOW" default:"1m"`
	GenerationLimit int           `envconfig:"ARTISANHUB_RATE_LIMIT_GENERATION" default:"10"`
	AnalyzeLimit    int           `envconfig:"ARTISANHUB_RATE_LIMIT_ANALYZE" default:"30"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ARTISANHUB_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}
