package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/sessionauth/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultAccessTTL    = 5 * time.Minute
	defaultRefreshTTL   = 10 * 24 * time.Hour
	defaultSessionTTL   = 7 * 24 * time.Hour
)

type Config struct {
	// Default logging level
	LogLevel string `env:"LOG_LEVEL"`

	// Address on which the service will be run
	ListenAddr string `env:"RUN_ADDRESS"`

	// Database to connect to
	DatabaseDSN string `env:"DATABASE_URI"`

	// Redis to cache user profiles in, cache is off if empty
	RedisURL string `env:"REDIS_URL"`

	// Secrets to sign access and refresh tokens
	// Required, have to differ
	AccessSecret  string `env:"ACCESS_TOKEN_SECRET"`
	RefreshSecret string `env:"REFRESH_TOKEN_SECRET"`

	// Token lifetimes and how long the stored refresh token is accepted
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL"`
	SessionTTL time.Duration `env:"REFRESH_SESSION_TTL"`

	// Environment (dev, prod)
	Environment string `env:"ENVIRONMENT"`
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		AccessTTL:   defaultAccessTTL,
		RefreshTTL:  defaultRefreshTTL,
		SessionTTL:  defaultSessionTTL,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

// Load variables the config knows about, empty ones are skipped
func (c *Config) LoadEnv(getenv func(string) string) error {
	params, err := env.GetFieldParams(c)
	if err != nil {
		return err
	}

	environment := make(map[string]string, len(params))
	for _, p := range params {
		if value := getenv(p.Key); value != "" {
			environment[p.Key] = value
		}
	}

	if err := env.ParseWithOptions(c, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("sessionauth", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.RedisURL, "redis", "r", c.RedisURL, "Redis URL for profile cache")
	fs.StringVar(&c.AccessSecret, "access-secret", c.AccessSecret, "Access token secret")
	fs.StringVar(&c.RefreshSecret, "refresh-secret", c.RefreshSecret, "Refresh token secret")
	fs.DurationVar(&c.AccessTTL, "access-ttl", c.AccessTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTTL, "refresh-ttl", c.RefreshTTL, "Refresh token lifetime")
	fs.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "Stored refresh token lifetime")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// Fail closed: service never starts without database and secrets
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		errs = append(errs, errors.New("access and refresh token secrets are required"))
	} else if c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.Environment != logger.EnvDevelopment && c.Environment != logger.EnvProduction {
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}
	for name, ttl := range map[string]time.Duration{"access": c.AccessTTL, "refresh": c.RefreshTTL, "session": c.SessionTTL} {
		if ttl <= 0 {
			errs = append(errs, fmt.Errorf("%s TTL must be positive", name))
		}
	}

	return errors.Join(errs...)
}
