package handlers

import (
	"log/slog"

	"github.com/ariabot/aria/internal/config"
	"github.com/ariabot/aria/internal/database"
	"github.com/ariabot/aria/internal/openai"
	"github.com/ariabot/aria/internal/ratelimit"
)

// HandlerDeps provides dependencies for Telegram update handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	AI      openai.Client
	Limiter *ratelimit.Limiter
}
