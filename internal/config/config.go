package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines engine configuration.
type Config struct {
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Tracking TrackingConfig `yaml:"tracking"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// TrackingConfig is the settings surface consumed by the tracker.
type TrackingConfig struct {
	IntervalMs      int      `yaml:"interval_ms"`
	IdleThresholdMs int      `yaml:"idle_threshold_ms"`
	ExcludedApps    []string `yaml:"excluded_apps"`
	BlockMinutes    int      `yaml:"block_minutes"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Path: "timescope.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracking: TrackingConfig{
			IntervalMs:      5000,
			IdleThresholdMs: 180000,
			BlockMinutes:    30,
		},
	}

	if path := os.Getenv("TIMESCOPE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("TIMESCOPE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMESCOPE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if intervalStr := os.Getenv("TIMESCOPE_TRACKING_INTERVAL_MS"); intervalStr != "" {
		interval, err := strconv.Atoi(intervalStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESCOPE_TRACKING_INTERVAL_MS: %w", err)
		}
		cfg.Tracking.IntervalMs = interval
	}
	if thresholdStr := os.Getenv("TIMESCOPE_IDLE_THRESHOLD_MS"); thresholdStr != "" {
		threshold, err := strconv.Atoi(thresholdStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMESCOPE_IDLE_THRESHOLD_MS: %w", err)
		}
		cfg.Tracking.IdleThresholdMs = threshold
	}
	if excluded := os.Getenv("TIMESCOPE_EXCLUDED_APPS"); excluded != "" {
		cfg.Tracking.ExcludedApps = splitList(excluded)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Tracking.IntervalMs <= 0 {
		return fmt.Errorf("tracking interval must be positive, got %d", c.Tracking.IntervalMs)
	}
	if c.Tracking.IdleThresholdMs <= 0 {
		return fmt.Errorf("idle threshold must be positive, got %d", c.Tracking.IdleThresholdMs)
	}
	if c.Tracking.BlockMinutes <= 0 {
		return fmt.Errorf("block minutes must be positive, got %d", c.Tracking.BlockMinutes)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
