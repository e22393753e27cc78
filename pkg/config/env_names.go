package config

// EnvPrefix scopes every environment variable read by Load.
const EnvPrefix = "BREMRAY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "BREMRAY_DB_DSN"
	EnvDBHost = "BREMRAY_DB_HOST"
	EnvDBUser = "BREMRAY_DB_USER"
	EnvDBName = "BREMRAY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
