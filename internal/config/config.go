// Package config loads runtime configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the CLI and server.
type Config struct {
	// Addr is the HTTP listen address of the API server.
	Addr string
	// DataFile is the path of the local store file.
	DataFile string
	// LogLevel and LogFormat feed the logger setup.
	LogLevel  string
	LogFormat string
}

// Load reads configuration from a .env file (when present) and the
// process environment. Missing values get local-first defaults; flags
// may override the result.
func Load() Config {
	// A missing .env file is not an error; the environment wins.
	_ = godotenv.Load()

	return Config{
		Addr:      getEnv("FORFETTAIRO_ADDR", ":8087"),
		DataFile:  getEnv("FORFETTAIRO_DATA", "forfettairo.json"),
		LogLevel:  getEnv("FORFETTAIRO_LOG_LEVEL", "info"),
		LogFormat: getEnv("FORFETTAIRO_LOG_FORMAT", "console"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
