package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ariabot/aria/internal/locale"
)

// CallbackSender is the subset of the bot API the quick-reply handler needs.
type CallbackSender interface {
	Sender
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

type quickReplyHandler struct {
	deps HandlerDeps
}

// NewQuickReplyHandler creates the handler for quick-reply button taps.
// A tap acknowledges the callback and echoes the chosen label back as a plain
// reply; it does not run the completion pipeline.
func NewQuickReplyHandler(deps HandlerDeps) bot.HandlerFunc {
	h := quickReplyHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		h.Handle(ctx, b, update)
	}
}

func (h quickReplyHandler) Handle(ctx context.Context, sender CallbackSender, update *models.Update) {
	log := h.deps.Logger.With("handler", "quick_reply")

	cb := update.CallbackQuery
	if cb == nil {
		log.WarnContext(ctx, "Quick-reply handler received update without callback query", "update_id", update.ID)
		return
	}

	// Always answer so the client stops the button spinner, even on bad data.
	if _, err := sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cb.ID}); err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", cb.ID)
	}

	index, err := strconv.Atoi(strings.TrimPrefix(cb.Data, QuickReplyPrefix))
	if err != nil || index < 0 || index >= len(locale.QuickReplies(locale.DefaultLanguage)) {
		log.WarnContext(ctx, "Ignoring callback with malformed quick-reply data", "data", cb.Data)
		return
	}

	lang := h.resolveLanguage(ctx, cb.From.ID, cb.From.LanguageCode)
	label := locale.QuickReplies(lang)[index]

	chatID := chatIDFromCallback(cb)
	if chatID == 0 {
		log.WarnContext(ctx, "Callback query has no accessible chat", "callback_query_id", cb.ID)
		return
	}

	if _, err := sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: label}); err != nil {
		log.ErrorContext(ctx, "Failed to echo quick-reply label", "error", err, "chat_id", chatID)
	}
}

// resolveLanguage prefers the stored user language over the hint carried by
// the callback, so the label matches the keyboard the user actually saw.
func (h quickReplyHandler) resolveLanguage(ctx context.Context, userID int64, hint string) string {
	user, err := h.deps.Store.GetUser(ctx, userID)
	if err == nil && user != nil {
		return locale.Resolve(user.Language)
	}
	return locale.Resolve(hint)
}

func chatIDFromCallback(cb *models.CallbackQuery) int64 {
	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}
	if cb.Message.InaccessibleMessage != nil {
		return cb.Message.InaccessibleMessage.Chat.ID
	}
	return 0
}
