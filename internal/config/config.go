package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Workout   WorkoutConfig   `yaml:"workout"`
	State     StateConfig     `yaml:"state"`
	Media     MediaConfig     `yaml:"media"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Audio     AudioConfig     `yaml:"audio"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// WorkoutConfig tunes the live session defaults.
type WorkoutConfig struct {
	DefaultRestSeconds int     `yaml:"default_rest_seconds"`
	WeightIncrement    float64 `yaml:"weight_increment"`
}

// StateConfig locates the local SQLite durability database.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// MediaConfig points at the object storage bucket for workout photos and
// videos. Leaving URL empty disables uploads.
type MediaConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
	Token  string `yaml:"token"`
}

// TailscaleConfig optionally exposes the server on a tailnet instead of a
// plain TCP listener.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AudioConfig toggles the workout sound cues.
type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix KABUNGA_ and underscore-separated paths:
//
//	KABUNGA_SERVER_HOST, KABUNGA_SERVER_PORT,
//	KABUNGA_DB_HOST, KABUNGA_DB_PORT, KABUNGA_DB_NAME,
//	KABUNGA_DB_USER, KABUNGA_DB_PASSWORD, KABUNGA_DB_SSLMODE,
//	KABUNGA_AUTH_API_KEY, KABUNGA_STATE_DIR,
//	KABUNGA_MEDIA_URL, KABUNGA_MEDIA_BUCKET, KABUNGA_MEDIA_TOKEN
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KABUNGA_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("KABUNGA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("KABUNGA_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("KABUNGA_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("KABUNGA_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("KABUNGA_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("KABUNGA_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("KABUNGA_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("KABUNGA_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("KABUNGA_STATE_DIR"); v != "" {
		cfg.State.Dir = v
	}
	if v := os.Getenv("KABUNGA_MEDIA_URL"); v != "" {
		cfg.Media.URL = v
	}
	if v := os.Getenv("KABUNGA_MEDIA_BUCKET"); v != "" {
		cfg.Media.Bucket = v
	}
	if v := os.Getenv("KABUNGA_MEDIA_TOKEN"); v != "" {
		cfg.Media.Token = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Workout.DefaultRestSeconds == 0 {
		cfg.Workout.DefaultRestSeconds = 90
	}
	if cfg.Workout.WeightIncrement == 0 {
		cfg.Workout.WeightIncrement = 2.5
	}
	if cfg.State.Dir == "" {
		cfg.State.Dir = "state"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Workout.DefaultRestSeconds < 0 {
		return fmt.Errorf("workout.default_rest_seconds must not be negative")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
