package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR} or ${VAR:default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// SubstituteEnvVars replaces ${VAR} or ${VAR:default} with environment
// variable values, falling back to the given default when VAR is unset.
func SubstituteEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}

// SubstituteEnvVarsInConfig recursively substitutes environment variables
// in every string-valued field of cfg that plausibly carries one.
func SubstituteEnvVarsInConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Logging.Level = SubstituteEnvVars(cfg.Logging.Level)
	cfg.Logging.Format = SubstituteEnvVars(cfg.Logging.Format)
	cfg.Logging.Output = SubstituteEnvVars(cfg.Logging.Output)

	cfg.KeyStore.Type = SubstituteEnvVars(cfg.KeyStore.Type)
	cfg.KeyStore.Directory = SubstituteEnvVars(cfg.KeyStore.Directory)
	cfg.KeyStore.PassphraseEnv = SubstituteEnvVars(cfg.KeyStore.PassphraseEnv)

	cfg.Metrics.Addr = SubstituteEnvVars(cfg.Metrics.Addr)
	cfg.Metrics.Path = SubstituteEnvVars(cfg.Metrics.Path)
}

// GetEnvironment returns the current environment from CHUNKCRYPT_ENV or
// ENVIRONMENT, defaulting to "development".
func GetEnvironment() string {
	env := os.Getenv("CHUNKCRYPT_ENV")
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if env == "" {
		env = "development"
	}
	return strings.ToLower(env)
}

// IsProduction reports whether GetEnvironment is "production".
func IsProduction() bool {
	return GetEnvironment() == "production"
}
