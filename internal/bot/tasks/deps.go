// Package tasks implements the scheduled background tasks of the bot.
package tasks

import (
	"log/slog"

	"github.com/ariabot/aria/internal/database"
	"github.com/ariabot/aria/internal/ratelimit"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   database.Store
	Limiter *ratelimit.Limiter
}
