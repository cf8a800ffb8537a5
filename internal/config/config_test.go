package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STR", "  value  ")
	assert.Equal(t, "value", getEnv("TEST_STR", "def"))
	assert.Equal(t, "def", getEnv("TEST_STR_MISSING", "def"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 7))

	t.Setenv("TEST_INT_BAD", "nope")
	assert.Equal(t, 7, getEnvAsInt("TEST_INT_BAD", 7))
	assert.Equal(t, 7, getEnvAsInt("TEST_INT_MISSING", 7))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", "a, b ,,c")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsSlice("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("TEST_SLICE_MISSING", []string{"x"}))
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.NotEmpty(t, cfg.CORSOrigins)
}
