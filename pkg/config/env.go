package config

const (
	EnvAppEnv                 = "ARTISANHUB_APP_ENV"
	EnvPort                   = "ARTISANHUB_APP_PORT"
	EnvLogLevel               = "ARTISANHUB_LOG_LEVEL"
	EnvUpstreamBaseURL        = "ARTISANHUB_UPSTREAM_BASE_URL"
	EnvUpstreamRequestTimeout = "ARTISANHUB_UPSTREAM_REQUEST_TIMEOUT"
	EnvSessionStore           = "ARTISANHUB_SESSION_STORE"
	EnvSessionTTL             = "ARTISANHUB_SESSION_TTL"
	EnvRedisURL               = "ARTISANHUB_REDIS_URL"
	EnvRedisAddr              = "ARTISANHUB_REDIS_ADDR"
	EnvCORSAllowedOrigins     = "ARTISANHUB_CORS_ALLOWED_ORIGINS"
)
