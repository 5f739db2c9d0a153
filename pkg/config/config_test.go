package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	LogLevel string        `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	TTL      time.Duration `env:"TEST_CFG_TTL" envDefault:"5m"`
	Brokers  []string      `env:"TEST_CFG_BROKERS" envDefault:"a:9092,b:9092" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_TTL", "30s")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithPrefix(t *testing.T) {
	type redisConfig struct {
		Host string `env:"HOST" envDefault:"localhost"`
		Port int    `env:"PORT" envDefault:"6379"`
	}
	t.Setenv("REDIS_HOST", "cache.internal")

	var cfg redisConfig
	require.NoError(t, LoadWithPrefix(&cfg, "REDIS_"))

	assert.Equal(t, "cache.internal", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
}
