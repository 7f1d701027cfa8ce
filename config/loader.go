package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoaderOptions configures LoadWithOptions's search and override behavior.
type LoaderOptions struct {
	// ConfigDir is the directory to look for an environment-named config
	// file in (default "config").
	ConfigDir string
	// Environment overrides GetEnvironment's automatic detection.
	Environment string
}

// DefaultLoaderOptions returns the loader's default search options.
func DefaultLoaderOptions() LoaderOptions {
	return LoaderOptions{ConfigDir: "config"}
}

// LoadWithOptions looks for "<ConfigDir>/<environment>.yaml", falling back
// to "<ConfigDir>/default.yaml" and then an all-defaults Config if neither
// exists, applies CHUNKCRYPT_* environment overrides, and returns the
// result.
func LoadWithOptions(opts LoaderOptions) (*Config, error) {
	if opts.ConfigDir == "" {
		opts.ConfigDir = "config"
	}
	env := opts.Environment
	if env == "" {
		env = GetEnvironment()
	}

	cfg, err := tryLoad(filepath.Join(opts.ConfigDir, env+".yaml"))
	if err != nil {
		cfg, err = tryLoad(filepath.Join(opts.ConfigDir, "default.yaml"))
		if err != nil {
			cfg = Default()
			cfg.Environment = env
		}
	}

	if cfg.Environment == "" {
		cfg.Environment = env
	}
	applyEnvironmentOverrides(cfg)
	return cfg, nil
}

func tryLoad(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %s not found: %w", path, err)
	}
	return Load(path)
}

// applyEnvironmentOverrides lets a handful of well-known environment
// variables take precedence over file-based configuration, the same
// override layer the teacher's SAGE_* variables provide.
func applyEnvironmentOverrides(cfg *Config) {
	if level := os.Getenv("CHUNKCRYPT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("CHUNKCRYPT_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if dir := os.Getenv("CHUNKCRYPT_KEYSTORE_DIR"); dir != "" {
		cfg.KeyStore.Directory = dir
	}
	switch os.Getenv("CHUNKCRYPT_METRICS_ENABLED") {
	case "true":
		cfg.Metrics.Enabled = true
	case "false":
		cfg.Metrics.Enabled = false
	}
}

// MustLoad loads configuration via LoadWithOptions's defaults or panics.
func MustLoad() *Config {
	cfg, err := LoadWithOptions(DefaultLoaderOptions())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}
