// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
	customValidation "github.com/allisson/tfvars-kms/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
	// LogFormat selects the slog handler, "text" or "json".
	LogFormat string

	// DeploymentsDir is the directory holding one <variant>/terraform.tfvars per deployment.
	DeploymentsDir string
	// TfvarsOutputPath is the file the encrypted configuration is written to.
	TfvarsOutputPath string

	// KMSProvider is the KMS provider to use ("gcpkms", "localsecrets", "hashivault").
	KMSProvider string
	// KMSKeyURI is the keeper URL used by the localsecrets and hashivault providers.
	KMSKeyURI string
	// KMSLocation is the Cloud KMS location of the key ring.
	KMSLocation string
	// KMSEndpoint overrides the Cloud KMS endpoint, e.g. to reach an emulator.
	KMSEndpoint string
	// KMSDefaultKeyRing is used when the configuration names no key ring.
	KMSDefaultKeyRing string
	// KMSDefaultCryptoKey is used when the configuration names no crypto key.
	KMSDefaultCryptoKey string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsTextfilePath is where metrics are written on exit, for the node exporter
	// textfile collector. Empty disables the file.
	MetricsTextfilePath string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel:  env.GetString("LOG_LEVEL", "info"),
		LogFormat: env.GetString("LOG_FORMAT", "text"),

		// Configuration files
		DeploymentsDir:   env.GetString("DEPLOYMENTS_DIR", "../deployments/gcp"),
		TfvarsOutputPath: env.GetString("TFVARS_OUTPUT_PATH", tfvarsDomain.DefaultFileName),

		// KMS configuration
		KMSProvider:         env.GetString("KMS_PROVIDER", string(kmsDomain.ProviderGCPKMS)),
		KMSKeyURI:           env.GetString("KMS_KEY_URI", ""),
		KMSLocation:         env.GetString("KMS_LOCATION", kmsDomain.DefaultLocation),
		KMSEndpoint:         env.GetString("KMS_ENDPOINT", ""),
		KMSDefaultKeyRing:   env.GetString("KMS_DEFAULT_KEYRING", "terraform-keyring"),
		KMSDefaultCryptoKey: env.GetString("KMS_DEFAULT_CRYPTOKEY", "terraform-cryptokey"),

		// Metrics
		MetricsEnabled:      env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace:    env.GetString("METRICS_NAMESPACE", "tfvars_kms"),
		MetricsTextfilePath: env.GetString("METRICS_TEXTFILE_PATH", ""),
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, customValidation.OneOf("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, customValidation.OneOf("text", "json")),
		validation.Field(&c.TfvarsOutputPath, validation.Required, customValidation.NotBlank),
		validation.Field(&c.KMSProvider,
			validation.Required,
			customValidation.OneOf(
				string(kmsDomain.ProviderGCPKMS),
				string(kmsDomain.ProviderLocalSecrets),
				string(kmsDomain.ProviderHashiVault),
			),
		),
		validation.Field(&c.KMSKeyURI,
			validation.When(c.KMSProvider != string(kmsDomain.ProviderGCPKMS), validation.Required),
		),
		validation.Field(&c.KMSLocation, validation.Required, customValidation.NoWhitespace),
		validation.Field(&c.KMSDefaultKeyRing, validation.Required, customValidation.ResourceID),
		validation.Field(&c.KMSDefaultCryptoKey, validation.Required, customValidation.ResourceID),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
	)
	return customValidation.WrapValidationError(err)
}

// DeploymentPath returns the configuration file of a deployment variant.
func (c *Config) DeploymentPath(variant tfvarsDomain.Variant) string {
	return filepath.Join(c.DeploymentsDir, string(variant), tfvarsDomain.DefaultFileName)
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
