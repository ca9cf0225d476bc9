package realex

import (
	"errors"
	"fmt"
	"strings"
)

// authorizationDelimiter joins the three positions of an authorization
// token. Gateway-issued sub-fields never contain it, so no escaping.
const authorizationDelimiter = ";"

// ErrMalformedAuthorization is returned when an authorization token does not
// split into exactly three positions. Tokens are only ever produced by the
// response parser; callers must not invent them.
var ErrMalformedAuthorization = errors.New("malformed authorization token")

// encodeAuthorization packs the gateway-issued transaction identity into the
// opaque token handed back to callers. Any position may legitimately be
// empty, but the token always contains exactly two delimiters so decoding is
// unambiguous.
func encodeAuthorization(orderID, pasRef, authCode string) string {
	return strings.Join([]string{orderID, pasRef, authCode}, authorizationDelimiter)
}

// decodeAuthorization splits a token back into order id, processor reference
// and authorization code.
func decodeAuthorization(token string) (orderID, pasRef, authCode string, err error) {
	parts := strings.Split(token, authorizationDelimiter)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: expected 3 parts, got %d", ErrMalformedAuthorization, len(parts))
	}
	return parts[0], parts[1], parts[2], nil
}
