package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml in the working directory
// 3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN)
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only consults the environment for keys viper already
	// knows. Keys without defaults (the secrets) must be bound explicitly
	// or BOT_TELEGRAM_TOKEN and friends are never read.
	for _, key := range []string{"telegram.token", "telegram.public_url", "openai.token"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: failed to bind env for %s: %v", ErrConfiguration, key, err)
		}
	}

	// A missing config file is fine, env vars and defaults still apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks the configuration against the struct validation tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && task.Schedule == "" {
			return fmt.Errorf("invalid configuration: task %q is enabled without a schedule", name)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("telegram.listen_addr", DefaultListenAddr)

	v.SetDefault("openai.base_url", DefaultOpenAIBaseURL)
	v.SetDefault("openai.model", DefaultOpenAIModel)
	v.SetDefault("openai.temperature", DefaultOpenAITemperature)
	v.SetDefault("openai.max_tokens", DefaultOpenAIMaxTokens)
	v.SetDefault("openai.timeout", DefaultOpenAITimeout)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.history_limit", DefaultHistoryLimit)

	v.SetDefault("ratelimit.cooldown", DefaultCooldown)

	v.SetDefault("scheduler.tasks.ratelimit_sweep.enabled", true)
	v.SetDefault("scheduler.tasks.ratelimit_sweep.schedule", DefaultSweepSchedule)
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", DefaultMaintenanceSchedule)
}
