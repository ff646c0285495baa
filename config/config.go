// Package config loads server settings from the environment and the points
// and behaviour rules from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the process settings read from the environment.
type Config struct {
	Port           string        `env:"PORT,default=8080"`
	DBPath         string        `env:"DB_PATH,default=./campus_events.db"`
	CORSOrigins    string        `env:"CORS_ORIGINS,default=http://localhost:3000"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT,default=5s"`
	SessionTTL     time.Duration `env:"SESSION_TTL,default=24h"`
	RulesFile      string        `env:"RULES_FILE,default=config/rules.yaml"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
	LogFormat      string        `env:"LOG_FORMAT,default=text"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST,default=10"`
}

// Load reads an optional .env file, then decodes the environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	// Defaults still apply when none of the variables is set.
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("PORT must not be empty")
	case c.DBPath == "":
		return errors.New("DB_PATH must not be empty")
	case c.StoreTimeout <= 0:
		return errors.New("STORE_TIMEOUT must be positive")
	case c.SessionTTL <= 0:
		return errors.New("SESSION_TTL must be positive")
	case c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0:
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SetupLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func (c *Config) SetupLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	switch strings.ToLower(c.LogFormat) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}
