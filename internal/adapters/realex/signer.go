package realex

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// sign computes the two-stage SHA-1 signature carried by every request.
// The ordered field values are joined with "." and hashed; that hex digest
// is then joined with the shared secret and hashed again.
//
// The digest input is positional: a logically absent field still occupies
// its position as an empty string, because omitting it would shift the
// delimiter structure and break authentication with the gateway.
func sign(secret string, fields ...string) string {
	inner := sha1hex(strings.Join(fields, "."))
	return sha1hex(inner + "." + secret)
}

func sha1hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
