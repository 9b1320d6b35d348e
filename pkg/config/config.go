package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/treelinehq/treeline/pkg/types"
)

// Defaults applied by Load when the file leaves fields unset
const (
	DefaultLocale           = "en"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultLogLevel         = "info"
	DefaultDataDir          = "data"
)

// ServiceConfig describes the presentation service endpoint
type ServiceConfig struct {
	// URL is the websocket endpoint, ws:// or wss://
	URL string `yaml:"url"`

	// Token is sent as a bearer authorization header on the handshake
	Token string `yaml:"token"`

	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
}

// PresentationConfig carries the manager's active defaults
type PresentationConfig struct {
	Locale     string           `yaml:"locale"`
	UnitSystem types.UnitSystem `yaml:"unit_system"`

	// RulesetDir, when set, is watched for *.json ruleset files that are
	// loaded into the registry.
	RulesetDir string `yaml:"ruleset_dir"`
}

// StorageConfig locates the local ruleset and variable store
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
}

// LogConfig mirrors pkg/log's initialization options
type LogConfig struct {
	Level      string `yaml:"level"`
	JSONOutput bool   `yaml:"json_output"`
}

// Config is the full client configuration
type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	Presentation PresentationConfig `yaml:"presentation"`
	Storage      StorageConfig      `yaml:"storage"`
	Log          LogConfig          `yaml:"log"`
}

// Load reads a YAML configuration file, applies defaults and environment
// overrides, and validates the result. TREELINE_SERVICE_URL and
// TREELINE_SERVICE_TOKEN override their file counterparts.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Presentation.Locale == "" {
		cfg.Presentation.Locale = DefaultLocale
	}
	if cfg.Service.HandshakeTimeout == 0 {
		cfg.Service.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.Service.WriteTimeout == 0 {
		cfg.Service.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultDataDir
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TREELINE_SERVICE_URL"); v != "" {
		cfg.Service.URL = v
	}
	if v := os.Getenv("TREELINE_SERVICE_TOKEN"); v != "" {
		cfg.Service.Token = v
	}
}

// Validate checks constraints that would otherwise surface as confusing
// runtime failures.
func Validate(cfg *Config) error {
	switch cfg.Presentation.UnitSystem {
	case "", types.UnitSystemMetric, types.UnitSystemImperial, types.UnitSystemUSCustomary, types.UnitSystemUSSurvey:
	default:
		return fmt.Errorf("unknown unit system %q", cfg.Presentation.UnitSystem)
	}

	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	if cfg.Service.HandshakeTimeout < 0 || cfg.Service.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}
