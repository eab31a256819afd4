// Package config loads application configuration for pullstream commands from
// a YAML file and PULLSTREAM_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vnykmshr/pullstream/pkg/common/validation"
	"github.com/vnykmshr/pullstream/pkg/logging"
	"github.com/vnykmshr/pullstream/pkg/metrics"
)

// EnvPrefix is the prefix of environment variables overriding file values.
// Nested keys use underscores: PULLSTREAM_TIMER_INTERVAL sets timer.interval.
const EnvPrefix = "PULLSTREAM"

// Config is the top-level application configuration.
type Config struct {
	Logging logging.Config `yaml:"logging" mapstructure:"logging"`
	Metrics MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
	Redis   RedisConfig    `yaml:"redis" mapstructure:"redis"`
	Timer   TimerConfig    `yaml:"timer" mapstructure:"timer"`
}

// MetricsConfig configures Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	Addr      string `yaml:"addr" mapstructure:"addr"`
}

// RedisConfig configures the Redis Pub/Sub source. An empty Addr disables it.
type RedisConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr"`
	DB      int    `yaml:"db" mapstructure:"db"`
	Channel string `yaml:"channel" mapstructure:"channel"`
}

// TimerConfig configures the timer sources.
type TimerConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	Cron     string        `yaml:"cron" mapstructure:"cron"`
	Ticks    int           `yaml:"ticks" mapstructure:"ticks"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Logging: logging.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: metrics.DefaultNamespace,
			Addr:      ":9090",
		},
		Redis: RedisConfig{
			Channel: "pullstream:events",
		},
		Timer: TimerConfig{
			Interval: time.Second,
			Ticks:    5,
		},
	}
}

// Load reads configuration from path, if non-empty, and from the environment,
// on top of Default. The result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so that environment variables can override
// keys absent from the file.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.no_color", d.Logging.NoColor)
	v.SetDefault("logging.timestamp", d.Logging.Timestamp)
	v.SetDefault("logging.caller", d.Logging.Caller)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.channel", d.Redis.Channel)
	v.SetDefault("timer.interval", d.Timer.Interval)
	v.SetDefault("timer.cron", d.Timer.Cron)
	v.SetDefault("timer.ticks", d.Timer.Ticks)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration("config", "timer.interval", c.Timer.Interval); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative("config", "timer.ticks", c.Timer.Ticks); err != nil {
		return err
	}
	if c.Redis.Addr != "" {
		if err := validation.ValidateNotEmpty("config", "redis.channel", c.Redis.Channel); err != nil {
			return err
		}
		if err := validation.ValidateNonNegative("config", "redis.db", c.Redis.DB); err != nil {
			return err
		}
	}
	return nil
}

// MetricsRegistry builds the metrics registry described by c.Metrics on reg,
// or returns nil when metrics are disabled.
func (c *Config) MetricsRegistry(reg metrics.Config) *metrics.Registry {
	reg.Enabled = c.Metrics.Enabled
	reg.Namespace = c.Metrics.Namespace
	return reg.Build()
}
