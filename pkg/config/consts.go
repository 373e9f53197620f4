package config

const (
	EnvPrefix = "pricing"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PRICING_APP_ENV"
	EnvPort   = "PRICING_APP_PORT"

	EnvDBDSN  = "PRICING_DB_DSN"
	EnvDBHost = "PRICING_DB_HOST"
	EnvDBUser = "PRICING_DB_USER"
	EnvDBName = "PRICING_DB_NAME"

	EnvRedisURL = "PRICING_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
