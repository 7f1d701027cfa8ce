package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFillsProtocolConstants(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 65536, cfg.Framing.MessageLen)
	assert.Equal(t, 48, cfg.Framing.ProofMaxDepth)
	assert.Equal(t, uint32(2), cfg.KDF.TimeCost)
	assert.Equal(t, uint32(64*1024), cfg.KDF.MemoryKiB)
	assert.Equal(t, uint8(1), cfg.KDF.Parallelism)
	assert.Equal(t, "memory", cfg.KeyStore.Type)
}

func TestLoadYAMLAppliesDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "environment: staging\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format) // defaulted
	assert.Equal(t, 65536, cfg.Framing.MessageLen)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default()
	cfg.KeyStore.Directory = "/tmp/keys"
	require.NoError(t, SaveToFile(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/keys", got.KeyStore.Directory)
}

func TestSaveJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, SaveToFile(Default(), path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"environment"`)
}
