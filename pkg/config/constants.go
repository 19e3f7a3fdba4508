package config

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "campuscart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CAMPUSCART_DB_DSN"
	EnvDBHost = "CAMPUSCART_DB_HOST"
	EnvDBUser = "CAMPUSCART_DB_USER"
	EnvDBName = "CAMPUSCART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
