package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVarsUsesEnvironmentValue(t *testing.T) {
	os.Setenv("CHUNKCRYPT_TEST_VAR", "resolved")
	defer os.Unsetenv("CHUNKCRYPT_TEST_VAR")

	got := SubstituteEnvVars("${CHUNKCRYPT_TEST_VAR}")
	assert.Equal(t, "resolved", got)
}

func TestSubstituteEnvVarsFallsBackToDefault(t *testing.T) {
	os.Unsetenv("CHUNKCRYPT_MISSING_VAR")
	got := SubstituteEnvVars("${CHUNKCRYPT_MISSING_VAR:fallback}")
	assert.Equal(t, "fallback", got)
}

func TestSubstituteEnvVarsInConfigWalksNestedFields(t *testing.T) {
	os.Setenv("CHUNKCRYPT_TEST_DIR", "/secure/keys")
	defer os.Unsetenv("CHUNKCRYPT_TEST_DIR")

	cfg := Default()
	cfg.KeyStore.Directory = "${CHUNKCRYPT_TEST_DIR}"
	SubstituteEnvVarsInConfig(cfg)

	assert.Equal(t, "/secure/keys", cfg.KeyStore.Directory)
}

func TestGetEnvironmentDefaultsToDevelopment(t *testing.T) {
	os.Unsetenv("CHUNKCRYPT_ENV")
	os.Unsetenv("ENVIRONMENT")
	assert.Equal(t, "development", GetEnvironment())
}

func TestIsProduction(t *testing.T) {
	os.Setenv("CHUNKCRYPT_ENV", "production")
	defer os.Unsetenv("CHUNKCRYPT_ENV")
	assert.True(t, IsProduction())
}
