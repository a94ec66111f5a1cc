package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookupMap(map[string]string{
		"RUMMY_LOG_LEVEL":       "debug",
		"RUMMY_LOG_FORMAT":      "json",
		"RUMMY_HISTORY_BACKEND": "Redis",
		"RUMMY_REDIS_ADDR":      "cache:6380",
		"RUMMY_REDIS_DB":        "3",
		"RUMMY_HIDDEN_JOKER":    "true",
		"RUMMY_DEBUG":           "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, BackendRedis, cfg.HistoryBackend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.HiddenJoker)
	assert.True(t, cfg.Debug)
}

func TestFromEnvErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"bad bool":          {"RUMMY_DEBUG": "sometimes"},
		"bad redis db":      {"RUMMY_REDIS_DB": "two"},
		"unknown backend":   {"RUMMY_HISTORY_BACKEND": "mongo"},
		"postgres sans dsn": {"RUMMY_HISTORY_BACKEND": "postgres"},
		"bad format":        {"RUMMY_LOG_FORMAT": "xml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(lookupMap(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("RUMMY_SQLITE_PATH=/tmp/from-dotenv.db\n"), 0o600))
	t.Setenv("RUMMY_HISTORY_BACKEND", "sqlite")
	t.Setenv("RUMMY_SQLITE_PATH", "")
	os.Unsetenv("RUMMY_SQLITE_PATH")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.HistoryBackend)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.SQLitePath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.Debug = true
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
