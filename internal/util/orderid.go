package util

import (
	"strings"

	"github.com/google/uuid"
)

// SanitizeOrderID strips every character outside [A-Za-z0-9\-_] from an
// order id. The gateway rejects anything else, and the sanitized value must
// be what gets signed, so sanitization happens once and the result is used
// in both the document body and the digest.
func SanitizeOrderID(orderID string) string {
	var b strings.Builder
	b.Grow(len(orderID))
	for i := 0; i < len(orderID); i++ {
		c := orderID[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NewOrderID generates a gateway-safe order id for callers without their own
// numbering scheme. Order ids are unique per attempt for the life of the
// merchant account, so a UUID is the safe default.
func NewOrderID() string {
	return uuid.NewString()
}
