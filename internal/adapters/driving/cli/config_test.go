package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetThenGet(t *testing.T) {
	setupTestServices(t, testSettings(t))

	out, err := execute(t, "config", "set", "search.max_results", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "search.max_results = 7")

	out, err = execute(t, "config", "get", "search.max_results")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestConfigGet_Default(t *testing.T) {
	setupTestServices(t, testSettings(t))

	out, err := execute(t, "config", "get", "storage.prefix")

	require.NoError(t, err)
	assert.Equal(t, "prds/\n", out)
}

func TestConfigGet_All(t *testing.T) {
	setupTestServices(t, testSettings(t))

	out, err := execute(t, "config", "get")

	require.NoError(t, err)
	assert.Contains(t, out, "storage.backend = filesystem")
	assert.Contains(t, out, "confirmation.required = true")
}

func TestConfigSet_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"unknown key", "storage.colour", "blue", "unknown config key"},
		{"bad int", "server.port", "eighty", "invalid value"},
		{"bad bool", "confirmation.required", "maybe", "invalid value"},
		{"bad duration", "confirmation.ttl", "soon", "invalid value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t, testSettings(t))

			_, err := execute(t, "config", "set", tt.key, tt.value)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	setupTestServices(t, testSettings(t))

	_, err := execute(t, "config", "get", "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key: nope")
}

func TestConfigPath(t *testing.T) {
	setupTestServices(t, testSettings(t))

	out, err := execute(t, "config", "path")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/prdstore-test/config.toml\n", out)
}
