// Package locale maps client locale hints to supported language codes and
// holds the fixed per-language reply texts and quick-reply labels.
package locale

import (
	"strings"
)

// DefaultLanguage is used for absent or unsupported locale hints.
const DefaultLanguage = "en"

// quickReplies holds exactly four suggestion labels per supported language.
// The lookup is an explicit finite mapping; Telegram callers should never hit
// the fallback branch because Resolve only produces keys of this map.
var quickReplies = map[string][4]string{
	"en": {"Tell me more", "Give me a tip", "Help me plan", "New topic"},
	"it": {"Dimmi di più", "Dammi un consiglio", "Aiutami a pianificare", "Nuovo argomento"},
	"de": {"Erzähl mir mehr", "Gib mir einen Tipp", "Hilf mir planen", "Neues Thema"},
}

var fallbackTexts = map[string]string{
	"en": "Sorry, something went wrong on my side. Please try again in a moment.",
	"it": "Scusa, qualcosa è andato storto da parte mia. Riprova tra un momento.",
	"de": "Entschuldige, bei mir ist etwas schiefgelaufen. Versuch es gleich noch einmal.",
}

var welcomeTexts = map[string]string{
	"en": "Hi! I'm Aria. Tell me what's on your mind and we'll take it from there.",
	"it": "Ciao! Sono Aria. Raccontami cosa ti passa per la testa e partiamo da lì.",
	"de": "Hallo! Ich bin Aria. Erzähl mir, was dich beschäftigt, und wir legen los.",
}

// Resolve maps a client-supplied locale hint (e.g. "it-IT") to a supported
// two-letter language code. Hints outside the supported set resolve to "en".
func Resolve(hint string) string {
	if len(hint) < 2 {
		return DefaultLanguage
	}
	code := strings.ToLower(hint[:2])
	if _, ok := quickReplies[code]; !ok {
		return DefaultLanguage
	}
	return code
}

// QuickReplies returns the four suggestion labels for a language, falling back
// to the English set for unsupported codes.
func QuickReplies(lang string) [4]string {
	labels, ok := quickReplies[lang]
	if !ok {
		return quickReplies[DefaultLanguage]
	}
	return labels
}

// FallbackText returns the localized error reply sent when the pipeline fails.
func FallbackText(lang string) string {
	text, ok := fallbackTexts[lang]
	if !ok {
		return fallbackTexts[DefaultLanguage]
	}
	return text
}

// WelcomeText returns the localized /start greeting.
func WelcomeText(lang string) string {
	text, ok := welcomeTexts[lang]
	if !ok {
		return welcomeTexts[DefaultLanguage]
	}
	return text
}
