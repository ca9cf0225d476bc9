package realex

import "time"

// The gateway exposes two fixed endpoints: the standard processing endpoint
// and the vault endpoint used for payer/card tokenization and stored-card
// purchases. Selection is purely a function of operation kind.
const (
	defaultURL      = "https://epage.payandshop.com/epage-remote.cgi"
	defaultVaultURL = "https://epage.payandshop.com/epage-remote-plugins.cgi"
)

// Config contains configuration for the Realex gateway adapter.
type Config struct {
	// URL is the standard processing endpoint.
	URL string

	// VaultURL is the tokenization endpoint (payer-new, card-new,
	// receipt-in).
	VaultURL string

	// Timeout applies to the default HTTP client when no transport is
	// injected.
	Timeout time.Duration
}

// DefaultConfig returns the production endpoints with a 30 second timeout.
// Test traffic uses the same endpoints; the merchant account decides whether
// the gateway treats a request as test traffic.
func DefaultConfig() *Config {
	return &Config{
		URL:      defaultURL,
		VaultURL: defaultVaultURL,
		Timeout:  30 * time.Second,
	}
}
