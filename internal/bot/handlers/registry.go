package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents an update handler with its match rule.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAllHandlers initializes and returns the routed handlers. The
// message pipeline itself is registered separately as the default handler.
func RegisterAllHandlers(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["quick_reply"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     QuickReplyPrefix,
		Handler:     NewQuickReplyHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
