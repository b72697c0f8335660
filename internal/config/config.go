package config

// Header constants.
const (
	HEADER_KEY_X_UID       = "X-Uid"
	HEADER_KEY_X_CLIENT_ID = "X-Client-Id"
)

// Environment variable keys.
const (
	ENV_KEY_APP_ENV   = "APP_ENV"
	ENV_KEY_PORT      = "PORT"
	ENV_KEY_CLIENT_ID = "CLIENT_ID"
	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_REDIS_HOST     = "REDIS_HOST"
	ENV_KEY_REDIS_PORT     = "REDIS_PORT"
	ENV_KEY_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_KEY_SMTP_HOST     = "SMTP_HOST"
	ENV_KEY_SMTP_PORT     = "SMTP_PORT"
	ENV_KEY_SMTP_USERNAME = "SMTP_USERNAME"
	ENV_KEY_SMTP_PASSWORD = "SMTP_PASSWORD"
	ENV_KEY_MAIL_FROM     = "MAIL_FROM"

	ENV_KEY_STORAGE_PROVIDER   = "STORAGE_PROVIDER"
	ENV_KEY_STORAGE_BUCKET     = "STORAGE_BUCKET"
	ENV_KEY_MINIO_ENDPOINT     = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY   = "MINIO_ACCESS_KEY"
	ENV_KEY_MINIO_SECRET_KEY   = "MINIO_SECRET_KEY"
	ENV_KEY_EXPORT_PATH        = "EXPORT_PATH"
	ENV_KEY_OTLP_ENDPOINT      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	ENV_KEY_WORKER_CONCURRENCY = "WORKER_CONCURRENCY"

	ENV_KEY_FIREBASE_SERVICE_ACCOUNT_KEY_PATH = "FIREBASE_SERVICE_ACCOUNT_KEY_PATH"
)

// Misc constants.
const (
	PRESIGN_URL_EXPIRE_MINUTES = 15

	// Fixed-window rate limit, per client IP.
	RATE_LIMIT_WINDOW_MINUTES = 15
	RATE_LIMIT_MAX_REQUESTS   = 100
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_ID
	CTX_KEY_USER_ROLE
)
