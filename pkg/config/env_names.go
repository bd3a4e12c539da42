package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "CINESPARK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "CINESPARK_APP_ENV"
	EnvPort     = "CINESPARK_APP_PORT"
	EnvDBDSN    = "CINESPARK_DB_DSN"
	EnvDBHost   = "CINESPARK_DB_HOST"
	EnvDBUser   = "CINESPARK_DB_USER"
	EnvDBName   = "CINESPARK_DB_NAME"
	EnvRedisURL = "CINESPARK_REDIS_URL"

	EnvJWTSecret   = "CINESPARK_JWT_SECRET"
	EnvJWTIssuer   = "CINESPARK_JWT_ISSUER"
	EnvJWTExpHours = "CINESPARK_JWT_EXPIRATION_HOURS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
