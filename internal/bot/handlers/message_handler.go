package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ariabot/aria/internal/database"
	"github.com/ariabot/aria/internal/locale"
	"github.com/ariabot/aria/internal/openai"
	"github.com/ariabot/aria/internal/prompt"
)

// QuickReplyPrefix is the callback-data prefix for quick-reply buttons.
// The full data is "qr:<index>" with the index into locale.QuickReplies.
const QuickReplyPrefix = "qr:"

// Sender is the subset of the Telegram bot API the message pipeline needs.
// *bot.Bot satisfies it; tests substitute a fake.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type messageHandler struct {
	deps HandlerDeps
}

// NewMessageHandler creates the default handler that relays a chat message
// through the persistence and completion pipeline.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	h := messageHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h.Handle(ctx, b, update)
	}
}

func (h messageHandler) Handle(ctx context.Context, sender Sender, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		log.DebugContext(ctx, "Ignoring update with nil message, nil sender, or empty text", "update_id", update.ID)
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if !deps.Limiter.Allow(userID) {
		// Silently dropped: no reply and no rows for rate-limited messages.
		log.DebugContext(ctx, "Message rejected by rate limiter", "user_id", userID)
		return
	}

	lang := locale.Resolve(msg.From.LanguageCode)

	reply, err := h.process(ctx, lang, msg)
	if err != nil {
		h.logFailure(ctx, log, userID, err)
		reply = locale.FallbackText(lang)
	}

	if _, sendErr := sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        reply,
		ReplyMarkup: quickReplyKeyboard(lang),
	}); sendErr != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", sendErr, "chat_id", chatID)
	}
}

// process runs the fallible part of the pipeline and returns the assistant
// reply. Any error is handled at the single catch point in Handle.
func (h messageHandler) process(ctx context.Context, lang string, msg *models.Message) (string, error) {
	deps := h.deps
	log := deps.Logger.With("handler", "message")
	userID := msg.From.ID

	displayName := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	if err := deps.Store.UpsertUser(ctx, userID, lang, displayName); err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}

	userTurn := &database.Message{
		UserID:  userID,
		Role:    database.RoleUser,
		Content: msg.Text,
	}
	if err := deps.Store.SaveMessage(ctx, userTurn); err != nil {
		return "", fmt.Errorf("save user turn: %w", err)
	}

	// The user turn is already persisted, so the history read excludes it by
	// ID to keep the prompt from carrying the new text twice.
	history, err := deps.Store.GetRecentMessages(ctx, userID, deps.Config.Database.HistoryLimit, userTurn.ID)
	if err != nil {
		log.WarnContext(ctx, "History read failed, continuing with empty history", "error", err, "user_id", userID)
		history = nil
	}

	reply, err := deps.AI.Complete(ctx, prompt.Assemble(lang, history, msg.Text))
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	assistantTurn := &database.Message{
		UserID:  userID,
		Role:    database.RoleAssistant,
		Content: reply,
	}
	if err := deps.Store.SaveMessage(ctx, assistantTurn); err != nil {
		return "", fmt.Errorf("save assistant turn: %w", err)
	}

	return reply, nil
}

// logFailure classifies the pipeline error for operators before the user gets
// the localized fallback.
func (h messageHandler) logFailure(ctx context.Context, log *slog.Logger, userID int64, err error) {
	var storeErr *database.StoreError
	var reqErr *openai.RequestError

	switch {
	case errors.As(err, &storeErr):
		log.ErrorContext(ctx, "Pipeline failed on persistence",
			"op", storeErr.Op, "error", err, "user_id", userID)
	case errors.As(err, &reqErr):
		log.ErrorContext(ctx, "Pipeline failed on completion request",
			"status", reqErr.StatusCode, "body", reqErr.Body, "user_id", userID)
	default:
		log.ErrorContext(ctx, "Pipeline failed", "error", err, "user_id", userID)
	}
}

// quickReplyKeyboard builds the single row of four localized suggestion
// buttons attached to every assistant reply.
func quickReplyKeyboard(lang string) *models.InlineKeyboardMarkup {
	labels := locale.QuickReplies(lang)
	row := make([]models.InlineKeyboardButton, 0, len(labels))
	for i, label := range labels {
		row = append(row, models.InlineKeyboardButton{
			Text:         label,
			CallbackData: fmt.Sprintf("%s%d", QuickReplyPrefix, i),
		})
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{row},
	}
}
