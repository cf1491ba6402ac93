// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KVPath is the filesystem path for the embedded key-value store used by
	// the CLI commands. Library consumers inject their own store.
	KVPath string

	// KeeperURI is the gocloud.dev secrets keeper URI used to encrypt resource
	// signing secrets at rest (e.g., "base64key://", "hashivault://keyname").
	KeeperURI string

	// CredentialExpiration is the default lifetime of bearer/refresh credentials.
	// Zero means the credential never expires.
	CredentialExpiration time.Duration

	// StatefulTokenExpiration is the default lifetime of stateful (single-use)
	// tokens such as identity-claim invitations.
	StatefulTokenExpiration time.Duration

	// VerifyRateEnabled indicates whether credential verification throttling is enabled.
	VerifyRateEnabled bool
	// VerifyRatePerSec is the number of verification attempts allowed per second per credential.
	VerifyRatePerSec float64
	// VerifyRateBurst is the burst size for verification throttling.
	VerifyRateBurst int

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ShareBaseURL is the base URL used when building share/claim links.
	ShareBaseURL string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Storage
		KVPath: env.GetString("KV_PATH", "authcore.db"),

		// Signing-secret keeper
		KeeperURI: env.GetString("KEEPER_URI", "base64key://"),

		// Token lifetimes
		CredentialExpiration:    env.GetDuration("CREDENTIAL_EXPIRATION_SECONDS", 0, time.Second),
		StatefulTokenExpiration: env.GetDuration("STATEFUL_TOKEN_EXPIRATION_HOURS", 168, time.Hour),

		// Verification throttling
		VerifyRateEnabled: env.GetBool("VERIFY_RATE_ENABLED", true),
		VerifyRatePerSec:  env.GetFloat64("VERIFY_RATE_PER_SEC", 5.0),
		VerifyRateBurst:   env.GetInt("VERIFY_RATE_BURST", 10),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "authcore"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Share links
		ShareBaseURL: env.GetString("SHARE_BASE_URL", "https://gateway.local"),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
