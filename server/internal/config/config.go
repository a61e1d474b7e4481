package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultStreamInterval = 5 * time.Second
	DefaultDatasetPath    = "AS2 5001.xlsx"
)

// Config holds the configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Targets TargetsConfig `yaml:"targets"`
	Alerts  AlertsConfig  `yaml:"alerts"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket stream and /metrics listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates API clients.
	Auth AuthConfig `yaml:"auth"`

	// Stream controls the WebSocket summary push.
	Stream StreamConfig `yaml:"stream"`
}

// AuthConfig controls client authentication on the API.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from.
	// Defaults to "X-API-Key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "X-API-Key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "X-API-Key"
}

// StreamConfig controls the WebSocket push of the dashboard summary.
type StreamConfig struct {
	// Interval between broadcasts. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

// DatasetConfig locates the production spreadsheet.
type DatasetConfig struct {
	// Path is the .xlsx, .xlsm or .csv file to load.
	Path string `yaml:"path"`

	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// Delimiter is the CSV field separator; a single character, default ",".
	Delimiter string `yaml:"delimiter"`

	// Workers bounds the goroutines used to compute metrics; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Watch logs a warning when the file changes on disk. The loaded
	// dataset is never replaced; a restart is required to pick up changes.
	Watch bool `yaml:"watch"`
}

// Comma returns the CSV delimiter as a rune, or 0 for the default.
func (d DatasetConfig) Comma() rune {
	if d.Delimiter == "" {
		return 0
	}
	return []rune(d.Delimiter)[0]
}

// TargetsConfig holds the KPI goals. Ratios are 0–1; MaxWastePct is a percentage.
type TargetsConfig struct {
	OEE          float64 `yaml:"oee"`
	Availability float64 `yaml:"availability"`
	Performance  float64 `yaml:"performance"`
	Quality      float64 `yaml:"quality"`
	MaxWastePct  float64 `yaml:"max_waste_pct"`
}

// AlertsConfig holds per-step alerting rules.
type AlertsConfig struct {
	Rules []AlertRule `yaml:"rules"`
}

// AlertRule defines one threshold-based condition evaluated per step.
type AlertRule struct {
	// Name is the human-readable alert identifier.
	Name string `yaml:"name"`

	// Condition is a simple expression: "oee < 0.6", "waste_rate > 5",
	// "status == Stopped".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info. Defaults to warning.
	Severity string `yaml:"severity"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Stream: StreamConfig{
				Interval: DefaultStreamInterval,
			},
		},
		Dataset: DatasetConfig{
			Path: DefaultDatasetPath,
		},
		Targets: TargetsConfig{
			OEE:          0.85,
			Availability: 0.90,
			Performance:  0.95,
			Quality:      0.99,
			MaxWastePct:  5,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if n := len([]rune(cfg.Dataset.Delimiter)); n > 1 {
		return fmt.Errorf("dataset.delimiter %q must be a single character", cfg.Dataset.Delimiter)
	}
	if cfg.Dataset.Workers < 0 {
		return fmt.Errorf("dataset.workers must not be negative")
	}
	for name, v := range map[string]float64{
		"oee":          cfg.Targets.OEE,
		"availability": cfg.Targets.Availability,
		"performance":  cfg.Targets.Performance,
		"quality":      cfg.Targets.Quality,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("targets.%s %v is out of range [0, 1]", name, v)
		}
	}
	if cfg.Targets.MaxWastePct < 0 {
		return fmt.Errorf("targets.max_waste_pct must not be negative")
	}
	for i, r := range cfg.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if r.Condition == "" {
			return fmt.Errorf("alerts.rules[%d] %q: condition is required", i, r.Name)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("alerts.rules[%d] %q: unknown severity %q", i, r.Name, r.Severity)
		}
	}
	return nil
}
