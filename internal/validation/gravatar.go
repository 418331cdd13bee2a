package validation

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL returns the protocol-relative avatar URL for email: 200px,
// pg-rated, falling back to the "mystery person" image.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "//www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
