package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Notifications.PollInterval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "admin_notifications", cfg.Kafka.Topic)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
backend:
  url: http://backend.internal:3000
  timeout: 3s
kafka:
  enabled: true
  brokers: ["k1:9092"]
notifications:
  poll_interval: 30s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("BACKEND_URL", "http://override:3000")
	t.Setenv("KAFKA_BROKER", "k2:9092,k3:9092")
	t.Setenv("DB_NAME", "terms")

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "http://override:3000", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k2:9092", "k3:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Notifications.PollInterval)
	assert.Contains(t, cfg.DatabaseDSN(), "dbname=terms")
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("backend: [unclosed"), 0o600))

	_, err := load(viper.New(), dir)
	assert.Error(t, err)
}

func TestInsecureSessionSecret(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionSecret, cfg.Session.Secret)
	assert.True(t, cfg.InsecureSessionSecret())

	t.Setenv("SESSION_SECRET", "   ")
	cfg, err = load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSessionSecret())

	t.Setenv("SESSION_SECRET", "s3cr3t-from-vault")
	cfg, err = load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t-from-vault", cfg.Session.Secret)
	assert.False(t, cfg.InsecureSessionSecret())
}
