package config

// Header constants.
const (
	HEADER_KEY_X_REQUEST_ID    = "X-Request-Id"
	HEADER_KEY_ACCEPT_LANGUAGE = "Accept-Language"
)

const (
	ENV_KEY_APP_ENV   = "APP_ENV"
	ENV_KEY_PORT      = "PORT"
	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_PUBLIC_BASE_URL    = "PUBLIC_BASE_URL"
	ENV_KEY_ANALYZE_RATE_LIMIT = "ANALYZE_RATE_LIMIT"

	// memory | postgres
	ENV_KEY_STORAGE_DRIVER = "STORAGE_DRIVER"

	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_REDIS_HOST         = "REDIS_HOST"
	ENV_KEY_REDIS_PORT         = "REDIS_PORT"
	ENV_KEY_REDIS_PASSWORD     = "REDIS_PASSWORD"
	ENV_KEY_WORKER_CONCURRENCY = "WORKER_CONCURRENCY"

	// minio | s3
	ENV_KEY_FILE_STORAGE_PROVIDER = "FILE_STORAGE_PROVIDER"

	ENV_KEY_MINIO_ENDPOINT    = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY  = "MINIO_ACCESS_KEY"
	ENV_KEY_MINIO_SECRET_KEY  = "MINIO_SECRET_KEY"
	ENV_KEY_MINIO_BUCKET      = "MINIO_BUCKET"
	ENV_KEY_MINIO_PUBLIC_PATH = "MINIO_PUBLIC_PATH"

	ENV_KEY_S3_BUCKET      = "S3_BUCKET"
	ENV_KEY_S3_REGION      = "S3_REGION"
	ENV_KEY_S3_PUBLIC_PATH = "S3_PUBLIC_PATH"

	ENV_KEY_SMTP_HOST     = "SMTP_HOST"
	ENV_KEY_SMTP_PORT     = "SMTP_PORT"
	ENV_KEY_SMTP_USERNAME = "SMTP_USERNAME"
	ENV_KEY_SMTP_PASSWORD = "SMTP_PASSWORD"
	ENV_KEY_MAIL_FROM     = "MAIL_FROM"

	ENV_KEY_OTEL_SERVICE_NAME           = "OTEL_SERVICE_NAME"
	ENV_KEY_OTEL_EXPORTER_OTLP_ENDPOINT = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

const (
	PRESIGN_URL_EXPIRE_MINUTES = 60

	// multipart uploads for analysis
	MAX_UPLOAD_SIZE = 10 * 1024 * 1024

	EXPORT_RETENTION_HOURS = 24

	DEFAULT_PORT               = 8080
	DEFAULT_ANALYZE_RATE       = 5
	DEFAULT_WORKER_CONCURRENCY = 10
	DEFAULT_SERVICE_NAME       = "assetvault"
)

const (
	STORAGE_DRIVER_MEMORY   = "memory"
	STORAGE_DRIVER_POSTGRES = "postgres"

	FILE_STORAGE_MINIO = "minio"
	FILE_STORAGE_S3    = "s3"
)

const (
	TASK_TYPE_EXPORT_ASSETS = "export:assets"

	REDIS_CHANNEL_ASSET_EVENTS = "assetvault:asset-events"
)
