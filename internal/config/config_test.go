package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJSON = `{
	"server_address": ":3000",
	"log_level": "debug",
	"file_storage_path": "json_profiles.json",
	"database_dsn": "json-dsn",
	"backend_delete_url": "http://json-backend.com/delete"
}`

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))
	return fileName
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.DBConnectionTimeout)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Empty(t, cfg.BackendDeleteURL)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestConfigPriorityJSONOnly(t *testing.T) {
	t.Setenv("CONFIG", writeTempJSON(t, testJSON))

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.RunAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json_profiles.json", cfg.DBFileName)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN)
	assert.Equal(t, "http://json-backend.com/delete", cfg.BackendDeleteURL)
}

func TestConfigPriorityJSONPlusEnv(t *testing.T) {
	t.Setenv("CONFIG", writeTempJSON(t, testJSON))
	t.Setenv("SERVER_ADDRESS", ":4000")
	t.Setenv("BACKEND_DELETE_URL", "http://env.com/delete")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.RunAddr) // env overrides json
	assert.Equal(t, "http://env.com/delete", cfg.BackendDeleteURL)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN) // from JSON
}

func TestConfigPriorityAllSources(t *testing.T) {
	t.Setenv("CONFIG", writeTempJSON(t, testJSON))
	t.Setenv("SERVER_ADDRESS", ":4000")
	t.Setenv("BACKEND_DELETE_URL", "http://env.com/delete")

	cfg, err := New(WithArgs([]string{
		"-a", ":6000",
		"-u", "http://cli.com/delete",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.RunAddr) // CLI > ENV > JSON
	assert.Equal(t, "http://cli.com/delete", cfg.BackendDeleteURL)
	assert.Equal(t, "json-dsn", cfg.DatabaseDSN) // from JSON
}

func TestConfigFileFromFlag(t *testing.T) {
	cfg, err := New(WithArgs([]string{"-c", writeTempJSON(t, testJSON)}))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.RunAddr)
}

func TestConfigEnvOnly(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":7000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.RunAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.BackendTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad log level", key: "LOG_LEVEL", val: "verbose"},
		{name: "bad server address", key: "SERVER_ADDRESS", val: "localhost"},
		{name: "bad backend url", key: "BACKEND_DELETE_URL", val: "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := New(WithDisableFlagsParsing(true))
			assert.Error(t, err)
		})
	}
}

func TestConfigMissingJSONFile(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "absent.json"))

	_, err := New(WithDisableFlagsParsing(true))
	assert.Error(t, err)
}
