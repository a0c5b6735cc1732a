package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// URL builds the deterministic avatar URL for an email address.
// Size 200, pg rating and the "mystery man" fallback match what the
// platform has always shown for users without a gravatar.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))

	sum := md5.Sum([]byte(normalized))
	hash := hex.EncodeToString(sum[:])

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")

	return "https://www.gravatar.com/avatar/" + hash + "?" + q.Encode()
}
