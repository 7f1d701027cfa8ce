// Package config provides configuration management for chunkcrypt.
//
// Adapted from the teacher's config/config.go + config/env.go: the same
// YAML-backed Config struct, ${VAR}/${VAR:default} environment
// substitution, and defaulting pattern, narrowed from SAGE's
// blockchain/DID/registration concerns down to framing, KDF, logging, and
// keystore settings -- the knobs this core actually exposes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	Environment string         `yaml:"environment" json:"environment"`
	Framing     FramingConfig  `yaml:"framing" json:"framing"`
	KDF         KDFConfig      `yaml:"kdf" json:"kdf"`
	Logging     LoggingConfig  `yaml:"logging" json:"logging"`
	KeyStore    KeyStoreConfig `yaml:"keystore" json:"keystore"`
	Metrics     MetricsConfig  `yaml:"metrics" json:"metrics"`
}

// FramingConfig controls the wire frame's structural parameters. These are
// protocol constants in frame.types today (MessageLen=65536,
// ProofMaxDepth=48); this config section exists as the escape hatch a
// future schemaVersion would use to widen them without recompiling, per
// spec.md §9's versioning note.
type FramingConfig struct {
	MessageLen    int `yaml:"message_len" json:"message_len"`
	ProofMaxDepth int `yaml:"proof_max_depth" json:"proof_max_depth"`
}

// KDFConfig holds Argon2id cost parameters. Defaults match the fixed
// libsodium INTERACTIVE profile. identity.DeriveSeed does not read these
// fields: it always uses primitives' KDFTimeCost, KDFMemoryKiB and
// KDFParallelism constants.
type KDFConfig struct {
	TimeCost    uint32 `yaml:"time_cost" json:"time_cost"`
	MemoryKiB   uint32 `yaml:"memory_kib" json:"memory_kib"`
	Parallelism uint8  `yaml:"parallelism" json:"parallelism"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // json, text
	Output string `yaml:"output" json:"output"` // stdout, stderr, file path
}

// KeyStoreConfig selects and configures the identity keystore backend.
type KeyStoreConfig struct {
	Type          string `yaml:"type" json:"type"` // memory, file
	Directory     string `yaml:"directory" json:"directory"`
	PassphraseEnv string `yaml:"passphrase_env" json:"passphrase_env"`
}

// MetricsConfig controls the optional Prometheus exporter.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// Default returns a Config populated with the spec's fixed defaults: the
// protocol-mandated frame sizes, INTERACTIVE Argon2id parameters, info
// logging, and an in-memory keystore.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads a YAML (or JSON, as a fallback) config file from path,
// applies defaults to any unset field, and substitutes ${VAR}/${VAR:default}
// environment references throughout.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("config: parsing %s (tried YAML and JSON): %w", path, err)
		}
	}

	setDefaults(cfg)
	SubstituteEnvVarsInConfig(cfg)
	return cfg, nil
}

// SaveToFile writes cfg to path as YAML, or JSON if path ends in ".json".
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Framing.MessageLen == 0 {
		cfg.Framing.MessageLen = 65536
	}
	if cfg.Framing.ProofMaxDepth == 0 {
		cfg.Framing.ProofMaxDepth = 48
	}

	if cfg.KDF.TimeCost == 0 {
		cfg.KDF.TimeCost = 2
	}
	if cfg.KDF.MemoryKiB == 0 {
		cfg.KDF.MemoryKiB = 64 * 1024
	}
	if cfg.KDF.Parallelism == 0 {
		cfg.KDF.Parallelism = 1
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.KeyStore.Type == "" {
		cfg.KeyStore.Type = "memory"
	}
	if cfg.KeyStore.Directory == "" {
		cfg.KeyStore.Directory = ".chunkcrypt/keys"
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9469"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
