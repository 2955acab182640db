package harmony

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var keyReplacer = strings.NewReplacer(
	"-", "b",
	"♭", "b",
	"♯", "#",
	" ", ":",
)

// NormalizeKey canonicalizes a key name for comparison: "B- major" and
// "B♭ major" both become "Bb:major".
func NormalizeKey(label string) string {
	return keyReplacer.Replace(norm.NFC.String(strings.TrimSpace(label)))
}

// NormalizeChord canonicalizes a chord name for comparison.
func NormalizeChord(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}
