package pet

import (
	"crypto/rand"
	"strings"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slugify builds the public URL slug for a pet: the lowercased name with
// runs of non-alphanumerics collapsed to single hyphens, plus a 4-character
// random suffix so names never collide. Slugs are generated once at
// creation and never change.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	base := strings.TrimSuffix(b.String(), "-")

	suffix := make([]byte, 4)
	rand.Read(suffix)
	for i := range suffix {
		suffix[i] = suffixAlphabet[int(suffix[i])%len(suffixAlphabet)]
	}

	if base == "" {
		return string(suffix)
	}
	return base + "-" + string(suffix)
}
