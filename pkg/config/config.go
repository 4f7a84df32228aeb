package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	Fassto FasstoConfig
	CORS   CORSConfig
	Sheets SheetsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FSG_APP_ENV" default:"production"`
	Port         string `envconfig:"FSG_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FSG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FSG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// FasstoConfig carries the upstream FMS API credentials and the retry/timeout
// budget for token exchange and data fetches.
type FasstoConfig struct {
	BaseURL      string `envconfig:"FSG_FASSTO_BASE_URL" default:"https://fmsapi.fassto.ai"`
	ClientCode   string `envconfig:"FSG_FASSTO_API_CD" required:"true"`
	ClientKey    string `envconfig:"FSG_FASSTO_API_KEY" required:"true"`
	CustomerCode string `envconfig:"FSG_FASSTO_CST_CD"`

	AuthAttempts  int           `envconfig:"FSG_FASSTO_AUTH_ATTEMPTS" default:"3"`
	FetchAttempts int           `envconfig:"FSG_FASSTO_FETCH_ATTEMPTS" default:"2"`
	AuthTimeout   time.Duration `envconfig:"FSG_FASSTO_AUTH_TIMEOUT" default:"10s"`
	FetchTimeout  time.Duration `envconfig:"FSG_FASSTO_FETCH_TIMEOUT" default:"15s"`
	AuthBackoff   time.Duration `envconfig:"FSG_FASSTO_AUTH_BACKOFF" default:"500ms"`
	FetchBackoff  time.Duration `envconfig:"FSG_FASSTO_FETCH_BACKOFF" default:"250ms"`
}

type CORSConfig struct {
	AllowedOrigins string `envconfig:"FSG_CORS_ALLOWED_ORIGINS" default:"https://script.google.com"`
}

// Origins returns the comma-separated allow-list as a trimmed slice.
func (c CORSConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type SheetsConfig struct {
	CredentialsJSON  string `envconfig:"FSG_SHEETS_CREDENTIALS_JSON"`
	CredentialsFile  string `envconfig:"FSG_GOOGLE_APPLICATION_CREDENTIALS"`
	Endpoint         string `envconfig:"FSG_SHEETS_ENDPOINT"`
	ValueInputOption string `envconfig:"FSG_SHEETS_VALUE_INPUT_OPTION" default:"RAW"`
}
