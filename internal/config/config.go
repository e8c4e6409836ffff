package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of an analysis run.
type Config struct {
	Analysis struct {
		Workers     int   `yaml:"workers"`       // extraction worker count
		CacheSize   int   `yaml:"cache_size"`    // extraction LRU entries, 0 disables
		HubTop      int   `yaml:"hub_top"`       // hubs shown in reports
		MaxFileSize int64 `yaml:"max_file_size"` // fetched file cap in bytes
	} `yaml:"analysis"`
	Ignore []string `yaml:"ignore"` // extra directory names to skip
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Analysis.Workers = 4
	cfg.Analysis.CacheSize = 512
	cfg.Analysis.HubTop = 10
	cfg.Analysis.MaxFileSize = 256 * 1024
	return cfg
}

// Load reads configuration: defaults, then the YAML file (optional, a
// missing file is not an error), then .env, then REPOLENS_* environment
// variables, in increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config if present
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with environment variables if present
	if v := os.Getenv("REPOLENS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Analysis.Workers = n
		}
	}
	if v := os.Getenv("REPOLENS_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Analysis.CacheSize = n
		}
	}
	if v := os.Getenv("REPOLENS_HUB_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Analysis.HubTop = n
		}
	}

	return cfg, nil
}
