// Package config manages application configuration from config.yaml,
// BOT_* environment variables, and default values.
package config

import (
	"errors"
	"time"
)

var ErrConfiguration = errors.New("configuration error")

// Config is the root application configuration.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// TelegramConfig holds the bot credentials and the webhook listener settings.
type TelegramConfig struct {
	Token      string `mapstructure:"token"      validate:"required"`
	PublicURL  string `mapstructure:"public_url" validate:"omitempty,url"`
	ListenAddr string `mapstructure:"listen_addr"`
}

// OpenAIConfig holds the completion endpoint settings.
type OpenAIConfig struct {
	Token       string        `mapstructure:"token"       validate:"required"`
	BaseURL     string        `mapstructure:"base_url"    validate:"required,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int           `mapstructure:"max_tokens"  validate:"min=1,max=4096"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=1s,max=10m"`
}

// DatabaseConfig holds the SQLite path and the history window size.
type DatabaseConfig struct {
	Path         string `mapstructure:"path"          validate:"required"`
	HistoryLimit int    `mapstructure:"history_limit" validate:"min=1,max=100"`
}

// RateLimitConfig holds the per-user cooldown between accepted messages.
type RateLimitConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown" validate:"min=1s,max=1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// SchedulerConfig holds the background task schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named background task with a cron schedule.
// Schedule presence for enabled tasks is checked in Validate because the
// struct validator does not descend into map values.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
