package auth

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var usernameSanitizer = regexp.MustCompile(`[^a-z0-9_]`)

// GenerateUsername derives a username candidate from an email address,
// suffixed with random hex to dodge collisions.
func GenerateUsername(email string) string {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	base = usernameSanitizer.ReplaceAllString(strings.ToLower(base), "")
	if len(base) > 12 {
		base = base[:12]
	}
	if base == "" {
		base = "user"
	}

	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)

	return base + "_" + hex.EncodeToString(suffix)
}
