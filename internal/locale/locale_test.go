package locale

import (
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hint string
		want string
	}{
		{"italian region", "it-IT", "it"},
		{"bare italian", "it", "it"},
		{"german region", "de-AT", "de"},
		{"english region", "en-GB", "en"},
		{"unsupported french", "fr-FR", "en"},
		{"unsupported spanish", "es", "en"},
		{"empty hint", "", "en"},
		{"single character", "i", "en"},
		{"uppercase hint", "IT-it", "it"},
		{"garbage", "zz-ZZ", "en"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Resolve(tc.hint); got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.hint, got, tc.want)
			}
		})
	}
}

func TestQuickRepliesPerLanguage(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"en", "it", "de"} {
		labels := QuickReplies(lang)
		for i, label := range labels {
			if label == "" {
				t.Errorf("QuickReplies(%q)[%d] is empty", lang, i)
			}
		}
	}

	if QuickReplies("fr") != QuickReplies("en") {
		t.Error("unsupported language should fall back to the English label set")
	}
	if QuickReplies("it") == QuickReplies("en") {
		t.Error("Italian labels should differ from English labels")
	}
}

func TestFallbackAndWelcomeTexts(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"en", "it", "de"} {
		if FallbackText(lang) == "" {
			t.Errorf("FallbackText(%q) is empty", lang)
		}
		if WelcomeText(lang) == "" {
			t.Errorf("WelcomeText(%q) is empty", lang)
		}
	}

	if FallbackText("xx") != FallbackText("en") {
		t.Error("unknown language should fall back to the English error text")
	}
}
