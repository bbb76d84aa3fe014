// Package prompt assembles the message list sent to the completion endpoint.
package prompt

import (
	"fmt"

	"github.com/ariabot/aria/internal/database"
	"github.com/ariabot/aria/internal/openai"
)

// languageNames spells out the resolved codes for the system turn. The model
// follows a named language more reliably than a bare ISO code.
var languageNames = map[string]string{
	"en": "English",
	"it": "Italian",
	"de": "German",
}

const persona = `You are Aria, a warm and encouraging personal companion. Keep replies concise: one to three short paragraphs, or a short checklist when the user asks for steps. Always end with one concrete next step the user can take.

Mirror the user's language and tone. Do not give medical, financial, or legal advice; if asked, gently redirect the user to a qualified professional instead.`

// Assemble builds the completion prompt: the persona system turn, the stored
// history verbatim in insertion order, and the new user text as the final
// turn. The history must not already contain the new text.
func Assemble(language string, history []database.Message, userText string) []openai.ChatMessage {
	name, ok := languageNames[language]
	if !ok {
		name = languageNames["en"]
	}

	messages := make([]openai.ChatMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatMessage{
		Role:    openai.RoleSystem,
		Content: fmt.Sprintf("%s\n\nThe user's language is %s.", persona, name),
	})

	for _, m := range history {
		role := openai.RoleUser
		if m.Role == database.RoleAssistant {
			role = openai.RoleAssistant
		}
		messages = append(messages, openai.ChatMessage{Role: role, Content: m.Content})
	}

	messages = append(messages, openai.ChatMessage{Role: openai.RoleUser, Content: userText})
	return messages
}
