package config

// EnvPrefix is applied by envconfig when resolving variables.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "ATELIER_APP_ENV"
	EnvPort       = "ATELIER_APP_PORT"
	EnvDBDSN      = "ATELIER_DB_DSN"
	EnvDBHost     = "ATELIER_DB_HOST"
	EnvDBUser     = "ATELIER_DB_USER"
	EnvDBName     = "ATELIER_DB_NAME"
	EnvRedisURL   = "ATELIER_REDIS_URL"
	EnvJWTSecret  = "ATELIER_JWT_SECRET"
	EnvJWTIssuer  = "ATELIER_JWT_ISSUER"
	EnvJWTExpMins = "ATELIER_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
