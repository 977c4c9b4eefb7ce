package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// DefaultProtectedPaths are the page paths that require a signed-in user.
var DefaultProtectedPaths = []string{
	"/dashboard",
	"/provider/dashboard",
	"/provider/catalog",
	"/provider/kyc",
	"/provider/rfq",
	"/projects",
	"/admin",
}

var DefaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
}

const (
	DefaultPort          = "5050"
	DefaultSignInPath    = "/signin"
	DefaultSessionTTL    = 7 * 24 * time.Hour
	DefaultSweepInterval = 15 * time.Minute
	DefaultLoginPerMin   = 10
)

type SessionBackend string

const (
	BackendPostgres SessionBackend = "postgres"
	BackendMemory   SessionBackend = "memory"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")
	ErrInvalidSessionTTL  = errors.New("session TTL must be positive")
	ErrNoProtectedPaths   = errors.New("protected path list is empty")
)

// Config holds everything main needs to wire the server.
type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	SessionBackend SessionBackend
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	CookieSecure   bool
	SignInPath     string
	ProtectedPaths []string
	AllowedOrigins []string
	LoginPerMinute int
}

// fileConfig is the optional YAML overlay pointed to by CONFIG_FILE.
type fileConfig struct {
	SignInPath     string   `yaml:"sign_in_path"`
	ProtectedPaths []string `yaml:"protected_paths"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// overlays the YAML file on top.
//
// Environment variables:
//   - PORT (default 5050)
//   - DATABASE_URL (required)
//   - REDIS_URL: enables the redis session cache
//   - SESSION_BACKEND: "postgres" (default) or "memory" for single-process dev runs
//   - SESSION_TTL: Go duration, default 168h
//   - SESSION_SWEEP_INTERVAL: Go duration, 0 disables the sweeper
//   - COOKIE_SECURE: default true; set false for plain-HTTP local dev
//   - SIGN_IN_PATH (default /signin)
//   - LOGIN_RATE_PER_MINUTE (default 10)
func Load() (Config, error) {
	cfg := Config{
		Port:           envOr("PORT", DefaultPort),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		SessionBackend: BackendPostgres,
		SessionTTL:     DefaultSessionTTL,
		SweepInterval:  DefaultSweepInterval,
		CookieSecure:   true,
		SignInPath:     envOr("SIGN_IN_PATH", DefaultSignInPath),
		ProtectedPaths: append([]string(nil), DefaultProtectedPaths...),
		AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		LoginPerMinute: DefaultLoginPerMin,
	}

	if strings.EqualFold(strings.TrimSpace(os.Getenv("SESSION_BACKEND")), string(BackendMemory)) {
		cfg.SessionBackend = BackendMemory
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", cfg.SessionTTL); err != nil {
		return cfg, err
	}
	if cfg.SweepInterval, err = durationEnv("SESSION_SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return cfg, err
	}

	if v := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = secure
	}

	if v := strings.TrimSpace(os.Getenv("LOGIN_RATE_PER_MINUTE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("LOGIN_RATE_PER_MINUTE: %w", err)
		}
		cfg.LoginPerMinute = n
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.SignInPath != "" {
		c.SignInPath = fc.SignInPath
	}
	if len(fc.ProtectedPaths) > 0 {
		c.ProtectedPaths = fc.ProtectedPaths
	}
	if len(fc.AllowedOrigins) > 0 {
		c.AllowedOrigins = fc.AllowedOrigins
	}
	return nil
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.SessionTTL <= 0 {
		return ErrInvalidSessionTTL
	}
	if len(c.ProtectedPaths) == 0 {
		return ErrNoProtectedPaths
	}
	for _, p := range c.ProtectedPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("protected path %q must start with /", p)
		}
	}
	if !strings.HasPrefix(c.SignInPath, "/") {
		return fmt.Errorf("sign-in path %q must start with /", c.SignInPath)
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
