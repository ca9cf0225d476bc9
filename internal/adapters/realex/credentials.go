package realex

import (
	"github.com/cobaltpay/realex-gateway/pkg/errors"
)

// CredentialsConfig is the constructor input for MerchantCredentials.
type CredentialsConfig struct {
	// Login is the merchant id issued by the gateway. Required.
	Login string

	// Secret is the shared secret used to sign every request. Required.
	Secret string

	// Account optionally selects a sub-account; a per-request account
	// overrides it.
	Account string

	// RebateSecret is the secondary secret the gateway requires on
	// refund/credit requests. Only its SHA-1 hash is retained.
	RebateSecret string
}

// MerchantCredentials holds the immutable merchant identity and signing
// secrets. Constructed once at client setup and held for the life of the
// adapter; all fields are unexported so nothing can mutate them between
// calls.
type MerchantCredentials struct {
	login      string
	secret     string
	account    string
	refundHash string
}

// NewMerchantCredentials validates and builds merchant credentials. The
// rebate secret, when present, is hashed once here; the raw value is never
// stored.
func NewMerchantCredentials(cfg CredentialsConfig) (*MerchantCredentials, error) {
	if cfg.Login == "" {
		return nil, errors.NewValidationError("login", "is required")
	}
	if cfg.Secret == "" {
		return nil, errors.NewValidationError("secret", "is required")
	}

	creds := &MerchantCredentials{
		login:   cfg.Login,
		secret:  cfg.Secret,
		account: cfg.Account,
	}
	if cfg.RebateSecret != "" {
		creds.refundHash = sha1hex(cfg.RebateSecret)
	}
	return creds, nil
}

// Login returns the merchant id.
func (c *MerchantCredentials) Login() string { return c.login }

// Account returns the client-level sub-account, if any.
func (c *MerchantCredentials) Account() string { return c.account }
