// Package config loads validator settings from the environment: secrets
// fail fast at startup, everything else falls back to a sane default.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the validator's runtime settings.
type Config struct {
	DataDir            string
	Port               string
	BroadcastAuthToken string
	PowDifficulty      int
	PlatformFeePercent float64
	APIAuthToken       string
}

// Load reads settings from the environment. BROADCAST_AUTH_TOKEN is
// required only when useLiveBroadcast is true (a real social backend is
// configured); local/dev runs against broadcast.LocalChannel don't need it.
func Load(useLiveBroadcast bool) Config {
	cfg := Config{
		DataDir:            getEnvOrDefault("CLIPTIONS_DATA_DIR", "./data"),
		Port:               getEnvOrDefault("PORT", "5339"),
		PowDifficulty:      getEnvIntOrDefault("POW_DIFFICULTY", 4),
		PlatformFeePercent: getEnvFloatOrDefault("PLATFORM_FEE_PERCENT", 0),
		APIAuthToken:       os.Getenv("API_AUTH_TOKEN"),
	}
	if useLiveBroadcast {
		cfg.BroadcastAuthToken = requireEnv("BROADCAST_AUTH_TOKEN")
	}
	return cfg
}

// requireEnv reads a required environment variable and exits if it is not
// set, preventing the binary from starting with missing critical
// configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: required environment variable %s is not set. "+
			"Copy .env.example to .env and fill in your values: cp .env.example .env", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("config: invalid int for %s=%q, using default %d", key, val, fallback)
		return fallback
	}
	return n
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Printf("config: invalid float for %s=%q, using default %g", key, val, fallback)
		return fallback
	}
	return f
}
