package services

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// slugify lowercases s and keeps ASCII letters and digits, joining the runs
// with single hyphens. Inputs with nothing left get a random slug.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		case r == '_':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return uuid.NewString()[:8]
	}
	return b.String()
}
