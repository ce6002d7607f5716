// Package config handles configuration loading for MarketLens.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	News      NewsConfig      `mapstructure:"news"      yaml:"news"`
	Store     StoreConfig     `mapstructure:"store"     yaml:"store"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// AnalysisConfig holds settings for the segmented analysis engine.
type AnalysisConfig struct {
	ProviderTimeoutSec  int `mapstructure:"provider_timeout_sec"  yaml:"provider_timeout_sec"`
	ReportingYearOffset int `mapstructure:"reporting_year_offset" yaml:"reporting_year_offset"` // years behind the current year
}

// ProvidersConfig holds per-provider endpoint configuration.
type ProvidersConfig struct {
	Comtrade       ComtradeConfig       `mapstructure:"comtrade"        yaml:"comtrade"`
	WorldBank      WorldBankConfig      `mapstructure:"world_bank"      yaml:"world_bank"`
	OpenCorporates OpenCorporatesConfig `mapstructure:"opencorporates"  yaml:"opencorporates"`
}

// ComtradeConfig holds the trade statistics API settings.
type ComtradeConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
}

// WorldBankConfig holds the economic indicator API settings.
type WorldBankConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// OpenCorporatesConfig holds the company directory API settings.
type OpenCorporatesConfig struct {
	BaseURL  string `mapstructure:"base_url"  yaml:"base_url"`
	APIToken string `mapstructure:"api_token" yaml:"api_token"`
}

// NewsConfig holds headline cache and feed settings.
type NewsConfig struct {
	TTLMinutes int      `mapstructure:"ttl_minutes" yaml:"ttl_minutes"`
	MaxItems   int      `mapstructure:"max_items"   yaml:"max_items"`
	Feeds      []string `mapstructure:"feeds"       yaml:"feeds"`
}

// StoreConfig holds the options store settings.
type StoreConfig struct {
	Path     string `mapstructure:"path"      yaml:"path"`
	InMemory bool   `mapstructure:"in_memory" yaml:"in_memory"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.marketlens/config.yaml (home directory)
//  3. /etc/marketlens/config.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETLENS_<SECTION>_<KEY>, e.g., MARKETLENS_API_PORT
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketlens"))
	v.AddConfigPath("/etc/marketlens")

	v.SetEnvPrefix("MARKETLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MARKETLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.provider_timeout_sec", 6)
	v.SetDefault("analysis.reporting_year_offset", 2)

	// Provider defaults
	v.SetDefault("providers.comtrade.base_url", "https://comtradeapi.un.org/public/v1/preview")
	v.SetDefault("providers.world_bank.base_url", "https://api.worldbank.org/v2")
	v.SetDefault("providers.opencorporates.base_url", "https://api.opencorporates.com/v0.4")

	// News defaults
	v.SetDefault("news.ttl_minutes", 15)
	v.SetDefault("news.max_items", 30)
	v.SetDefault("news.feeds", []string{
		"https://feeds.bbci.co.uk/news/business/rss.xml",
		"https://www.cnbc.com/id/20910258/device/rss/rss.html",
		"https://moxie.foxbusiness.com/google-publisher/markets.xml",
	})

	// Store defaults
	v.SetDefault("store.path", filepath.Join(homeDir(), ".marketlens", "store"))
	v.SetDefault("store.in_memory", false)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("MARKETLENS_COMTRADE_API_KEY"); key != "" {
		cfg.Providers.Comtrade.APIKey = key
	}
	if key := os.Getenv("MARKETLENS_OPENCORPORATES_API_TOKEN"); key != "" {
		cfg.Providers.OpenCorporates.APIToken = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
