// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Apify     ApifyConfig     `yaml:"apify" mapstructure:"apify"`
	Collect   CollectConfig   `yaml:"collect" mapstructure:"collect"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	Model          string `yaml:"model" mapstructure:"model"`
	CalibrateModel string `yaml:"calibrate_model" mapstructure:"calibrate_model"`
	MaxTokens      int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SerperConfig holds Serper.dev search API settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ApifyConfig holds Apify marketplace scraper settings.
type ApifyConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Actor   string `yaml:"actor" mapstructure:"actor"`
}

// CollectConfig configures signal collection behavior.
type CollectConfig struct {
	SearchTimeoutSecs   int `yaml:"search_timeout_secs" mapstructure:"search_timeout_secs"`
	SearchRetries       int `yaml:"search_retries" mapstructure:"search_retries"`
	MaxMarketplaceItems int `yaml:"max_marketplace_items" mapstructure:"max_marketplace_items"`
	MaxShoppingResults  int `yaml:"max_shopping_results" mapstructure:"max_shopping_results"`
	MinMarketplaceItems int `yaml:"min_marketplace_items" mapstructure:"min_marketplace_items"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// A local .env is optional; environment wins either way.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VIABILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default to empty: viper only carries env values
	// through Unmarshal for keys it already knows about.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("serper.key", "")
	v.SetDefault("apify.token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.calibrate_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("apify.base_url", "https://api.apify.com/v2")
	v.SetDefault("apify.actor", "apify~amazon-search-scraper")
	v.SetDefault("collect.search_timeout_secs", 15)
	v.SetDefault("collect.search_retries", 1)
	v.SetDefault("collect.max_marketplace_items", 10)
	v.SetDefault("collect.max_shopping_results", 20)
	v.SetDefault("collect.min_marketplace_items", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings a command mode needs are present.
// Modes: "analyze" (full pipeline), "serve" (pipeline + HTTP server).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "analyze", "serve":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Serper.Key == "" {
			problems = append(problems, "serper.key is required")
		}
		if c.Apify.Token == "" {
			problems = append(problems, "apify.token is required")
		}
	}

	if mode == "serve" && c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
