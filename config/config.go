// Package config loads service settings from compiled defaults, an optional
// TOML file and SHIFTCAL_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SHIFTCAL_"

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	OCRGemini = "gemini"
	OCRJSON   = "json"
	OCRNone   = "none"
)

type Config struct {
	Environment string         `toml:"environment" env:"ENVIRONMENT"`
	Log         LogConfig      `toml:"log" envPrefix:"LOG_"`
	Server      ServerConfig   `toml:"server" envPrefix:"SERVER_"`
	CORS        CORSConfig     `toml:"cors" envPrefix:"CORS_"`
	Store       StoreConfig    `toml:"store" envPrefix:"STORE_"`
	Wage        WageConfig     `toml:"wage" envPrefix:"WAGE_"`
	OCR         OCRConfig      `toml:"ocr" envPrefix:"OCR_"`
	Schedule    ScheduleConfig `toml:"schedule" envPrefix:"SCHEDULE_"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `toml:"format" env:"FORMAT"` // text or json
}

type ServerConfig struct {
	Port            string `toml:"port" env:"PORT"`
	ReadTimeout     int    `toml:"read_timeout" env:"READ_TIMEOUT"` // seconds
	WriteTimeout    int    `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     int    `toml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout int    `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

type StoreConfig struct {
	Driver string `toml:"driver" env:"DRIVER"`
	Path   string `toml:"path" env:"PATH"`
}

type WageConfig struct {
	Hourly float64 `toml:"hourly" env:"HOURLY"`
}

type OCRConfig struct {
	Provider      string  `toml:"provider" env:"PROVIDER"`
	APIKey        string  `toml:"api_key" env:"API_KEY"`
	Model         string  `toml:"model" env:"MODEL"`
	Timeout       int     `toml:"timeout" env:"TIMEOUT"` // seconds
	LineThreshold float64 `toml:"line_threshold" env:"LINE_THRESHOLD"`
}

type ScheduleConfig struct {
	Pairing string `toml:"pairing" env:"PAIRING"`
}

// Default returns the compiled defaults.
func Default() *Config {
	return &Config{
		Environment: "development",
		Log:         LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     10,
			WriteTimeout:    90,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		CORS:     CORSConfig{AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"}},
		Store:    StoreConfig{Driver: StoreMemory, Path: ":memory:"},
		Wage:     WageConfig{Hourly: 10030},
		OCR:      OCRConfig{Provider: OCRGemini, Model: "gemini-1.5-flash", Timeout: 60, LineThreshold: 0.02},
		Schedule: ScheduleConfig{Pairing: "positional"},
	}
}

// Load layers defaults, the TOML file at path (a missing file is not an
// error) and the environment. GEMINI_API_KEY fills in a missing API key.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	if cfg.OCR.APIKey == "" {
		cfg.OCR.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg, nil
}

// LoadFile decodes path over the current values.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// LoadEnv overrides values with SHIFTCAL_* variables that are set.
func (c *Config) LoadEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return fmt.Errorf("failed to parse environment: %w", aggErr.Errors[0])
		}
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver must be memory or sqlite, got %q", c.Store.Driver))
	}
	if c.Wage.Hourly < 0 {
		errs = append(errs, fmt.Errorf("wage.hourly must be non-negative, got %v", c.Wage.Hourly))
	}
	switch c.OCR.Provider {
	case OCRGemini, OCRJSON, OCRNone:
	default:
		errs = append(errs, fmt.Errorf("ocr.provider must be gemini, json or none, got %q", c.OCR.Provider))
	}
	if c.OCR.LineThreshold <= 0 {
		errs = append(errs, fmt.Errorf("ocr.line_threshold must be positive, got %v", c.OCR.LineThreshold))
	}
	if c.OCR.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("ocr.timeout must be positive, got %d", c.OCR.Timeout))
	}
	switch strings.ToLower(c.Schedule.Pairing) {
	case "", "positional", "proximity":
	default:
		errs = append(errs, fmt.Errorf("schedule.pairing must be positional or proximity, got %q", c.Schedule.Pairing))
	}
	return errors.Join(errs...)
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// HourlyWage returns the configured rate as a decimal.
func (c *Config) HourlyWage() decimal.Decimal {
	return decimal.NewFromFloat(c.Wage.Hourly)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration  { return seconds(s.ReadTimeout) }
func (s ServerConfig) WriteTimeoutDuration() time.Duration { return seconds(s.WriteTimeout) }
func (s ServerConfig) IdleTimeoutDuration() time.Duration  { return seconds(s.IdleTimeout) }
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return seconds(s.ShutdownTimeout)
}
func (o OCRConfig) TimeoutDuration() time.Duration { return seconds(o.Timeout) }

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// =============================================================================
// LOGGING
// =============================================================================

// NewLogger builds the process logger.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}
