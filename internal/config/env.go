package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides for API settings. They take precedence over the
// config file so CI jobs can repoint the client without editing TOML.
const (
	EnvAPIBase   = "TYPEBADGE_API_BASE"
	EnvUserAgent = "TYPEBADGE_USER_AGENT"
)

// LoadEnv loads a .env file from the working directory if present.
func LoadEnv() {
	// A missing .env is the normal case outside CI.
	_ = godotenv.Load()
}

// APIBaseFromEnv returns the API base URL override, if set.
func APIBaseFromEnv() string {
	return os.Getenv(EnvAPIBase)
}

// UserAgentFromEnv returns the User-Agent override, if set.
func UserAgentFromEnv() string {
	return os.Getenv(EnvUserAgent)
}
