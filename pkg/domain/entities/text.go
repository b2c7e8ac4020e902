package entities

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText is applied to every text value and lookup key at load time:
// NFC composition, surrounding whitespace trimmed, Spanish upper case.
// Both the working table and the policy matrix go through it, which is what
// makes lookups case-insensitive.
func NormalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	// Casers keep state and are not safe for concurrent use.
	return cases.Upper(language.Spanish).String(norm.NFC.String(s))
}
