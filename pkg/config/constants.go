package config

const (
	EnvPrefix = "fsg"

	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names for the mandatory settings, shared with tests
// and startup diagnostics.
const (
	EnvFasstoClientCode = "FSG_FASSTO_API_CD"
	EnvFasstoClientKey  = "FSG_FASSTO_API_KEY"
)
