package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/fio/internal/report"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "fio.yaml"

// EnvFile is loaded into the environment when present.
const EnvFile = ".env"

// Config represents the top-level fio.yaml configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Parser ParserConfig `yaml:"parser"`
	Log    LogConfig    `yaml:"log"`
}

// APIConfig locates the REST API and authenticates against it.
type APIConfig struct {
	Token      string        `yaml:"token,omitempty"` // usually supplied via FIO_TOKEN instead
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	RateWindow time.Duration `yaml:"rate_window"` // minimum spacing between calls
}

// ParserConfig selects how exports are decoded.
type ParserConfig struct {
	Mode     string `yaml:"mode"`     // named | positional
	Strategy string `yaml:"strategy"` // streaming | buffered
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level    string `yaml:"level"`
	FetchLog string `yaml:"fetch_log"`
}

// Load reads a fio.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://www.fio.cz/ib_api/rest",
			Timeout:    60 * time.Second,
			RateWindow: 30 * time.Second,
		},
		Parser: ParserConfig{
			Mode:     string(report.ModeNamed),
			Strategy: string(report.StrategyStreaming),
		},
		Log: LogConfig{
			Level:    "info",
			FetchLog: "fio-fetch-log.csv",
		},
	}
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"token":     "api.token",
	"base-url":  "api.base_url",
	"timeout":   "api.timeout",
	"mode":      "parser.mode",
	"strategy":  "parser.strategy",
	"log-level": "log.level",
	"fetch-log": "log.fetch_log",
}

// Build assembles the effective configuration. Sources, lowest precedence
// first: defaults, the config file at path, the .env file, FIO_* environment
// variables, then flags that were set explicitly. A missing file is only an
// error when path was given explicitly.
func Build(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	loaded, err := Load(path)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if _, err := os.Stat(EnvFile); err == nil {
		if err := gotenv.Load(EnvFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("FIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.token", cfg.API.Token)
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.rate_window", cfg.API.RateWindow)
	v.SetDefault("parser.mode", cfg.Parser.Mode)
	v.SetDefault("parser.strategy", cfg.Parser.Strategy)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.fetch_log", cfg.Log.FetchLog)
	if err := v.BindEnv("api.token", "FIO_API_TOKEN", "FIO_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding token env: %w", err)
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	cfg.API.Token = v.GetString("api.token")
	cfg.API.BaseURL = v.GetString("api.base_url")
	cfg.API.Timeout = v.GetDuration("api.timeout")
	cfg.API.RateWindow = v.GetDuration("api.rate_window")
	cfg.Parser.Mode = v.GetString("parser.mode")
	cfg.Parser.Strategy = v.GetString("parser.strategy")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.FetchLog = v.GetString("log.fetch_log")
	return cfg, nil
}

// Validate checks the settings needed to call the API.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Token) == "" {
		return errors.New("api token is required (set FIO_TOKEN, --token or api.token)")
	}
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.RateWindow < 0 {
		return errors.New("api.rate_window must not be negative")
	}
	if _, err := report.ParseMode(c.Parser.Mode); err != nil {
		return err
	}
	if _, err := report.ParseStrategy(c.Parser.Strategy); err != nil {
		return err
	}
	return nil
}
