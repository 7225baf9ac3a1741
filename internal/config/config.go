// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the calculator service.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	OTelEnabled bool
	ServiceName string

	SessionTTL           time.Duration
	SessionMax           int
	SessionSweepInterval time.Duration

	MaxDigits int
	Grouping  bool
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		HTTPAddr:             ":8080",
		ShutdownTimeout:      5 * time.Second,
		LogLevel:             "info",
		LogFormat:            "json",
		OTelEnabled:          false,
		ServiceName:          "keypad-calc",
		SessionTTL:           30 * time.Minute,
		SessionMax:           10000,
		SessionSweepInterval: time.Minute,
		MaxDigits:            0,
		Grouping:             false,
	}
}

// LoadDotEnv loads environment variables from path when it exists.
// Existing process environment variables are not overridden.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// Load builds a Config from the process environment.
func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("HTTP_ADDR", &cfg.HTTPAddr)
	p.duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	p.str("LOG_LEVEL", &cfg.LogLevel)
	p.str("LOG_FORMAT", &cfg.LogFormat)
	p.boolean("OTEL_ENABLED", &cfg.OTelEnabled)
	p.str("OTEL_SERVICE_NAME", &cfg.ServiceName)
	p.duration("SESSION_TTL", &cfg.SessionTTL)
	p.integer("SESSION_MAX", &cfg.SessionMax)
	p.duration("SESSION_SWEEP_INTERVAL", &cfg.SessionSweepInterval)
	p.integer("CALC_MAX_DIGITS", &cfg.MaxDigits)
	p.boolean("CALC_GROUPING", &cfg.Grouping)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: want json or console, got %q", c.LogFormat))
	}
	if c.SessionMax < 0 {
		errs = append(errs, fmt.Errorf("SESSION_MAX: must not be negative, got %d", c.SessionMax))
	}
	if c.MaxDigits < 0 {
		errs = append(errs, fmt.Errorf("CALC_MAX_DIGITS: must not be negative, got %d", c.MaxDigits))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_SWEEP_INTERVAL: must be positive, got %s", c.SessionSweepInterval))
	}
	return errors.Join(errs...)
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.lookup(key); ok && v != "" {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (p *parser) boolean(key string, dst *bool) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}
