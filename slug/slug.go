// Package slug derives canonical channel identifiers from raw user names.
// Normalization must be identical everywhere it is used: provisioning and
// enforcement both key on it, so any drift breaks owner resolution.
package slug

import "strings"

// Normalize lower-cases the input and strips every rune outside [a-z0-9_-].
// It is total (empty in, empty out) and idempotent.
func Normalize(raw string) string {
	lowered := strings.ToLower(raw)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if isAllowed(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}
