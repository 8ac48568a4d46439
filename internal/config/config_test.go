package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Hour, cfg.Session.InactivityTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Session.ResumabilityTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, 4000, cfg.Transport.MaxMessageLength)
	assert.Equal(t, 500*time.Millisecond, cfg.Transport.ChunkDelay)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
session:
  inactivity_timeout: 30m
store:
  driver: file
  path: /var/lib/intake
transport:
  chunk_delay: 250ms
log:
  level: debug
`), 0o644))

	cfg, err := LoadWith(path, env(map[string]string{
		"PORT":              "7070",
		"SESSION_TIMEOUT":   "3600000",
		"WHATSAPP_TOKEN":    "tok",
		"WHATSAPP_PHONE_ID": "106540352242922",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.InactivityTimeout)
	assert.Equal(t, time.Hour, cfg.Session.ResumabilityTimeout)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "/var/lib/intake", cfg.Store.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Transport.ChunkDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tok", cfg.WhatsApp.Token)
}

func TestLoad_LegacyMilliseconds(t *testing.T) {
	cfg, err := LoadWith("", env(map[string]string{
		"MAX_INACTIVITY":  "600000",
		"SESSION_TIMEOUT": "86400000",
		"LOG_LEVEL":       "WARN",
	}))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Session.InactivityTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Session.ResumabilityTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_RedisURLSelectsRedis(t *testing.T) {
	cfg, err := LoadWith("", env(map[string]string{"REDIS_URL": "redis://localhost:6379/0"}))
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Driver)

	cfg, err = LoadWith("", env(map[string]string{
		"REDIS_URL":           "redis://localhost:6379/0",
		"INTAKE_STORE_DRIVER": "file",
	}))
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"bad number", map[string]string{"PORT": "eighty"}, "PORT"},
		{"port range", map[string]string{"PORT": "70000"}, "Server.Port"},
		{"unknown driver", map[string]string{"INTAKE_STORE_DRIVER": "postgres"}, "Store.Driver"},
		{"redis without url", map[string]string{"INTAKE_STORE_DRIVER": "redis"}, "Store.RedisURL"},
		{"token without phone", map[string]string{"WHATSAPP_TOKEN": "tok"}, "WhatsApp.PhoneID"},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "Log.Level"},
		{"bad duration", map[string]string{"INTAKE_CHUNK_DELAY": "soon"}, "INTAKE_CHUNK_DELAY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith("", env(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadWith(filepath.Join(t.TempDir(), "nope.yaml"), env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("INTAKE_TEST_DOTENV=from-file\n"), 0o644))

	t.Setenv("INTAKE_TEST_DOTENV", "")
	os.Unsetenv("INTAKE_TEST_DOTENV")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("INTAKE_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
