package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all PinCrime configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Uploads  UploadsConfig  `yaml:"uploads"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatasetConfig struct {
	Path string `yaml:"path"`
}

type AnalysisConfig struct {
	ClusterCount int `yaml:"cluster_count"`
	TopN         int `yaml:"top_n"`
}

type UploadsConfig struct {
	Dir           string `yaml:"dir"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Default returns the built-in configuration, matching the dashboard's
// original behavior (5 clusters, top 10 crime types, uploaded_files dir).
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Dataset: DatasetConfig{Path: "data/rizal_crimes.csv"},
		Analysis: AnalysisConfig{
			ClusterCount: 5,
			TopN:         10,
		},
		Uploads: UploadsConfig{
			Dir:           "uploaded_files",
			DBPath:        "uploads.db",
			RetentionDays: 90,
		},
	}
}

// Load reads a YAML config file at path and merges it over the defaults.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.ClusterCount < 1 {
		return fmt.Errorf("cluster_count must be at least 1, got %d", c.Analysis.ClusterCount)
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1, got %d", c.Analysis.TopN)
	}
	if c.Uploads.RetentionDays < 0 {
		return fmt.Errorf("retention_days cannot be negative, got %d", c.Uploads.RetentionDays)
	}
	return nil
}
