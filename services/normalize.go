package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTrigger trims, composes and lower-cases text so that "Hello",
// " hello " and "HELLO" map to the same trigger key.
func NormalizeTrigger(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	// cases.Caser is stateful; one per call.
	return cases.Lower(language.Und).String(norm.NFC.String(text))
}
