// Package avatar derives profile pictures from email addresses.
package avatar

import (
	"crypto/md5" //nolint:gosec // Gravatar keys avatars by the MD5 of the address.
	"encoding/hex"
	"net/url"
	"strings"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// Gravatar returns the 200px, PG-rated Gravatar URL for email with the
// "mystery man" fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
