package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultListenAddr = ":8080"

	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAITemperature = 0.5
	DefaultOpenAIMaxTokens   = 400
	DefaultOpenAITimeout     = 30 * time.Second

	DefaultDBPath       = "storage.db"
	DefaultHistoryLimit = 8

	DefaultCooldown = 5 * time.Second

	// Sweep often enough that the rate limiter map stays small; vacuum nightly
	// during low traffic.
	DefaultSweepSchedule       = "*/5 * * * *"
	DefaultMaintenanceSchedule = "0 4 * * *"
)
