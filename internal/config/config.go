package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "BRAND_MONITOR_CONFIG"
	listenAddrEnv = "BRAND_MONITOR_ADDR"
	vocabPathEnv  = "BRAND_MONITOR_VOCAB"
	serpAPIKeyEnv = "SERPAPI_KEY"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Collectors CollectorsConfig `yaml:"collectors"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// VocabularyConfig locates the keyword document and its generated mirror.
type VocabularyConfig struct {
	Path       string `yaml:"path"`
	ExportPath string `yaml:"exportPath"`
	Maintainer string `yaml:"maintainer"`
}

// CollectorsConfig wires the platform collectors and their deadlines.
type CollectorsConfig struct {
	CollectorTimeout time.Duration `yaml:"collectorTimeout"`
	BatchTimeout     time.Duration `yaml:"batchTimeout"`
	Dcard            DcardConfig   `yaml:"dcard"`
	SerpAPI          SerpAPIConfig `yaml:"serpapi"`
	Google           GoogleConfig  `yaml:"google"`
}

// DcardConfig lists the forums to scan. Zero value means enabled, so an
// omitted section keeps the default collector set.
type DcardConfig struct {
	Disabled bool     `yaml:"disabled"`
	Forums   []string `yaml:"forums"`
}

// SerpAPIConfig carries the API key; the collector is only registered when a
// key is present.
type SerpAPIConfig struct {
	APIKey string `yaml:"apiKey"`
}

// GoogleConfig toggles the direct HTML scraper.
type GoogleConfig struct {
	Disabled bool `yaml:"disabled"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(vocabPathEnv); v != "" {
		c.Vocabulary.Path = v
	}
	if v := os.Getenv(serpAPIKeyEnv); v != "" {
		c.Collectors.SerpAPI.APIKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Vocabulary.Path != "" {
		base.Vocabulary.Path = override.Vocabulary.Path
	}
	if override.Vocabulary.ExportPath != "" {
		base.Vocabulary.ExportPath = override.Vocabulary.ExportPath
	}
	if override.Vocabulary.Maintainer != "" {
		base.Vocabulary.Maintainer = override.Vocabulary.Maintainer
	}

	if override.Collectors.CollectorTimeout > 0 {
		base.Collectors.CollectorTimeout = override.Collectors.CollectorTimeout
	}
	if override.Collectors.BatchTimeout > 0 {
		base.Collectors.BatchTimeout = override.Collectors.BatchTimeout
	}
	if len(override.Collectors.Dcard.Forums) > 0 {
		base.Collectors.Dcard.Forums = override.Collectors.Dcard.Forums
	}
	if override.Collectors.Dcard.Disabled {
		base.Collectors.Dcard.Disabled = true
	}
	if override.Collectors.Google.Disabled {
		base.Collectors.Google.Disabled = true
	}
	if override.Collectors.SerpAPI.APIKey != "" {
		base.Collectors.SerpAPI.APIKey = override.Collectors.SerpAPI.APIKey
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Vocabulary: VocabularyConfig{
			Path:       "data/keywords.json",
			ExportPath: "data/keywordcfg.go.txt",
			Maintainer: "brand-team",
		},
		Collectors: CollectorsConfig{
			CollectorTimeout: 15 * time.Second,
			BatchTimeout:     45 * time.Second,
			Dcard: DcardConfig{
				Forums: []string{"review", "shopping", "bargain"},
			},
		},
	}
}
