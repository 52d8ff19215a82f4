// Package config holds the per-deployment settings for talking to the
// platform. Values are injected into clients at construction; nothing
// below the binaries reads the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultJobTimeout   = 10 * time.Minute
	DefaultListenAddr   = ":8080"
)

var ErrMissingCredentials = errors.New("missing platform credentials")

type Config struct {
	ServerPath  string
	AccessToken string
	Email       string
	StoreID     string

	HTTPTimeout  time.Duration
	PollInterval time.Duration
	JobTimeout   time.Duration

	// DatabaseURL enables the request ledger when set.
	DatabaseURL string

	LogLevel   string
	ListenAddr string
}

func Default() Config {
	return Config{
		HTTPTimeout:  DefaultHTTPTimeout,
		PollInterval: DefaultPollInterval,
		JobTimeout:   DefaultJobTimeout,
		LogLevel:     "info",
		ListenAddr:   DefaultListenAddr,
	}
}

// FromEnv builds a Config from environment variables. Callers are expected
// to have run godotenv.Load beforehand.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	cfg.ServerPath = strings.TrimRight(get("PLATFORM_SERVER_PATH"), "/")
	cfg.AccessToken = get("PLATFORM_ACCESS_TOKEN")
	cfg.Email = get("PLATFORM_EMAIL")
	cfg.StoreID = get("PLATFORM_STORE_ID")
	cfg.DatabaseURL = get("DATABASE_URL")

	if level := get("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if addr := get("LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"PLATFORM_HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"PLATFORM_POLL_INTERVAL", &cfg.PollInterval},
		{"PLATFORM_JOB_TIMEOUT", &cfg.JobTimeout},
	}

	for _, d := range durations {
		raw := get(d.key)
		if raw == "" {
			continue
		}

		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("%s must be positive, got %s", d.key, raw)
		}

		*d.target = parsed
	}

	return cfg, nil
}

// Validate reports which credentials are missing for talking to the
// platform. The mock server does not need them.
func (c Config) Validate() error {
	var missing []string

	if c.ServerPath == "" {
		missing = append(missing, "PLATFORM_SERVER_PATH")
	}
	if c.AccessToken == "" {
		missing = append(missing, "PLATFORM_ACCESS_TOKEN")
	}
	if c.Email == "" {
		missing = append(missing, "PLATFORM_EMAIL")
	}
	if c.StoreID == "" {
		missing = append(missing, "PLATFORM_STORE_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return nil
}
