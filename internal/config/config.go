// Package config provides configuration management for the signal engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"crypto-trader/internal/strategy"
)

// Config holds all application configuration. Every strategy knob has a
// documented default; a config file only needs the values it overrides.
type Config struct {
	Strategies StrategiesConfig `mapstructure:"strategies"`
	Store      StoreConfig      `mapstructure:"store"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// StrategiesConfig groups the per-strategy parameter sets.
type StrategiesConfig struct {
	Momentum       strategy.MomentumConfig       `mapstructure:"momentum"`
	Scalping       strategy.ScalpingConfig       `mapstructure:"scalping"`
	Conservative   strategy.ConservativeConfig   `mapstructure:"conservative"`
	MultiIndicator strategy.MultiIndicatorConfig `mapstructure:"multi_indicator"`
}

// StoreConfig holds signal journal configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/crypto-trader"
	}
	return filepath.Join(home, ".config", "crypto-trader")
}

// Default returns a configuration populated entirely from defaults.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Strategies: StrategiesConfig{
			Momentum:       strategy.DefaultMomentumConfig(),
			Scalping:       strategy.DefaultScalpingConfig(),
			Conservative:   strategy.DefaultConservativeConfig(),
			MultiIndicator: strategy.DefaultMultiIndicatorConfig(),
		},
		Store: StoreConfig{
			Path: filepath.Join(home, ".config", "crypto-trader", "signals.db"),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Console:  true,
			File:     false,
			FilePath: filepath.Join(home, ".config", "crypto-trader", "logs", "trader.log"),
		},
	}
}

// Load loads configuration from the specified directory, falling back to
// defaults when no config file exists. If configDir is empty, uses the
// default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config.yaml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		valid bool
	}{
		{"strategies.momentum.min_bars", c.Strategies.Momentum.MinBars > 0},
		{"strategies.momentum.fast_period", c.Strategies.Momentum.FastPeriod > 0},
		{"strategies.momentum.slow_period", c.Strategies.Momentum.SlowPeriod > c.Strategies.Momentum.FastPeriod},
		{"strategies.scalping.min_bars", c.Strategies.Scalping.MinBars > 0},
		{"strategies.scalping.max_volatility", c.Strategies.Scalping.MaxVolatility > c.Strategies.Scalping.MinVolatility},
		{"strategies.scalping.stop_percent", c.Strategies.Scalping.StopPercent > 0},
		{"strategies.conservative.min_bars", c.Strategies.Conservative.MinBars >= c.Strategies.Conservative.SMASlowPeriod},
		{"strategies.conservative.reward_multiple", c.Strategies.Conservative.RewardMultiple > 0},
		{"strategies.multi_indicator.min_bars", c.Strategies.MultiIndicator.MinBars > 0},
		{"strategies.multi_indicator.buy_threshold", c.Strategies.MultiIndicator.BuyThreshold > c.Strategies.MultiIndicator.SellThreshold},
	}

	for _, check := range checks {
		if !check.valid {
			return fmt.Errorf("invalid value for %s", check.name)
		}
	}
	return nil
}

// Registry builds a strategy registry using the configured parameters
// instead of the baked-in defaults.
func (c *Config) Registry() *strategy.Registry {
	r := strategy.NewRegistry()
	momentum := c.Strategies.Momentum
	scalping := c.Strategies.Scalping
	conservative := c.Strategies.Conservative
	multi := c.Strategies.MultiIndicator
	r.Register("momentum", func() strategy.Strategy { return strategy.NewMomentumWithConfig(momentum) })
	r.Register("scalping", func() strategy.Strategy { return strategy.NewScalpingWithConfig(scalping) })
	r.Register("conservative", func() strategy.Strategy { return strategy.NewConservativeWithConfig(conservative) })
	r.Register("multi_indicator", func() strategy.Strategy { return strategy.NewMultiIndicatorWithConfig(multi) })
	return r
}
