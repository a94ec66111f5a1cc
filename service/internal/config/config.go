// Package config loads service settings from the environment, reading a .env
// file first when one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// History backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds every setting the service and the simulator read.
type Config struct {
	LogLevel  string // logrus level name
	LogFormat string // "text" or "json"

	HistoryBackend string
	SQLitePath     string
	PostgresDSN    string
	RedisAddr      string
	RedisDB        int

	HiddenJoker bool
	Debug       bool
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      "text",
		HistoryBackend: BackendMemory,
		SQLitePath:     "rummy.db",
		RedisAddr:      "localhost:6379",
	}
}

// Load reads the .env file at path (if it exists) into the process
// environment and then builds a Config from the RUMMY_* variables. An empty
// path means ".env".
func Load(path string) (Config, error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to Default for unset
// variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("RUMMY_LOG_LEVEL", &cfg.LogLevel)
	str("RUMMY_LOG_FORMAT", &cfg.LogFormat)
	str("RUMMY_HISTORY_BACKEND", &cfg.HistoryBackend)
	str("RUMMY_SQLITE_PATH", &cfg.SQLitePath)
	str("RUMMY_POSTGRES_DSN", &cfg.PostgresDSN)
	str("RUMMY_REDIS_ADDR", &cfg.RedisAddr)
	if v, ok := lookup("RUMMY_REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RUMMY_REDIS_DB: %w", err))
		}
		cfg.RedisDB = n
	}
	boolean("RUMMY_HIDDEN_JOKER", &cfg.HiddenJoker)
	boolean("RUMMY_DEBUG", &cfg.Debug)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	cfg.HistoryBackend = strings.ToLower(cfg.HistoryBackend)
	return cfg, cfg.Validate()
}

// Validate checks the backend choice and the settings it needs.
func (c Config) Validate() error {
	switch c.HistoryBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite backend needs RUMMY_SQLITE_PATH")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres backend needs RUMMY_POSTGRES_DSN")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("redis backend needs RUMMY_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown history backend %q", c.HistoryBackend)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// NewLogger returns a logrus logger with the configured level and formatter.
// Debug forces the debug level.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if c.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logger := logrus.New()
	logger.Out = os.Stdout
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.Formatter = &logrus.JSONFormatter{}
	} else {
		logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	return logger, nil
}
