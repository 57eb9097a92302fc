package config

// EnvPrefix is passed to envconfig.Process; individual fields carry the full
// variable name in their tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "TRACELINK_APP_ENV"
	EnvPort     = "TRACELINK_APP_PORT"
	EnvDBDSN    = "TRACELINK_DB_DSN"
	EnvDBHost   = "TRACELINK_DB_HOST"
	EnvDBUser   = "TRACELINK_DB_USER"
	EnvDBName   = "TRACELINK_DB_NAME"
	EnvRedisURL = "TRACELINK_REDIS_URL"

	EnvJWTSecret              = "TRACELINK_JWT_SECRET"
	EnvJWTIssuer              = "TRACELINK_JWT_ISSUER"
	EnvJWTExpMins             = "TRACELINK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "TRACELINK_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "TRACELINK_GCP_PROJECT_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
