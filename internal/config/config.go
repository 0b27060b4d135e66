package config

import (
	"os"
	"strconv"
)

// Config holds all daemon configuration loaded from environment variables.
type Config struct {
	HTTPPort  int
	SchemaDir string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with defaults.
// SEPA_SCHEMA_DIR may be empty, in which case rendered documents are not
// checked against their XSD definitions.
func Load() Config {
	return Config{
		HTTPPort:  getEnvInt("HTTP_PORT", 8080),
		SchemaDir: getEnv("SEPA_SCHEMA_DIR", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
