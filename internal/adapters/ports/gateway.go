package ports

import (
	"context"

	"github.com/cobaltpay/realex-gateway/internal/domain/models"
)

// Operation names the gateway operation being performed. Used for logging
// and metrics labels.
type Operation string

const (
	OperationPurchase           Operation = "purchase"
	OperationAuthorize          Operation = "authorize"
	OperationCapture            Operation = "capture"
	OperationRefund             Operation = "refund"
	OperationVoid               Operation = "void"
	OperationCredit             Operation = "credit"
	OperationCreatePayer        Operation = "create_payer"
	OperationStoreCard          Operation = "store_card"
	OperationPurchaseFromStored Operation = "purchase_from_stored"
)

// TransactionInfo carries the optional per-request metadata shared across
// operations. The zero value is valid: empty fields are simply not emitted.
type TransactionInfo struct {
	// Account overrides the client-level sub-account for this request.
	Account string

	// Currency overrides the currency carried by the request's Money value.
	Currency string

	// Description becomes a single gateway comment when present.
	Description string

	// Transaction screening inputs. The tssinfo block is only emitted on
	// purchase/authorize and only when at least one of these is set.
	CustomerNumber  string
	InvoiceID       string
	CustomerIP      string
	BillingAddress  *models.Address
	ShippingAddress *models.Address

	// CVVPresence overrides the cvn presence indicator. When empty the
	// indicator is "1" if a verification value was supplied.
	CVVPresence string
}

// PurchaseRequest is an auth-and-settle charge against raw card data.
type PurchaseRequest struct {
	OrderID string
	Amount  models.Money
	Card    models.CreditCard
	TransactionInfo
}

// AuthorizeRequest reserves funds without settling; a later capture settles.
type AuthorizeRequest struct {
	OrderID string
	Amount  models.Money
	Card    models.CreditCard
	TransactionInfo
}

// CaptureRequest settles a prior authorization identified by its
// authorization token.
type CaptureRequest struct {
	Authorization string
	TransactionInfo
}

// RefundRequest rebates a settled transaction identified by its
// authorization token.
type RefundRequest struct {
	Authorization string
	Amount        models.Money
	TransactionInfo
}

// VoidRequest cancels a prior transaction identified by its authorization
// token before settlement.
type VoidRequest struct {
	Authorization string
	TransactionInfo
}

// CreditRequest pays out to a card without reference to a prior transaction.
type CreditRequest struct {
	OrderID string
	Amount  models.Money
	Card    models.CreditCard
	TransactionInfo
}

// CreatePayerRequest registers a payer record in the gateway vault.
type CreatePayerRequest struct {
	OrderID   string
	PayerRef  string
	PayerType string // defaults to "Business"
	FirstName string
	LastName  string
	Address   *models.Address
	TransactionInfo
}

// StoreCardRequest stores a card in the gateway vault against an existing
// payer record.
type StoreCardRequest struct {
	OrderID  string
	PayerRef string
	CardRef  string
	Card     models.CreditCard
	TransactionInfo
}

// StoredPurchaseRequest charges a previously stored card, referencing the
// vault payer and card tokens instead of raw card data.
type StoredPurchaseRequest struct {
	OrderID  string
	Amount   models.Money
	PayerRef string
	CardRef  string
	CVN      string // optional verification value collected for this charge
	TransactionInfo
}

// GatewayResult is the normalized outcome of a gateway exchange. Gateway
// declines are results, not errors: Success is false and ResultCode/Message
// carry the gateway's verdict. Immutable once returned.
type GatewayResult struct {
	// Success is true only when the gateway result code is "00".
	Success bool

	// Message is advisory text mapped from the result code. Never use it to
	// infer success.
	Message string

	// ResultCode is the raw 3-digit gateway result code.
	ResultCode string

	// Authorization is the composite token (orderid;pasref;authcode) that
	// capture/void/refund requests reference.
	Authorization string

	OrderID  string
	PasRef   string
	AuthCode string

	// Verification indicators, when the gateway returned them.
	CVVResult         string
	AVSPostcodeResult string

	// TestMode is set when the gateway flagged the response as coming from
	// its test system.
	TestMode bool

	// Fields is the raw flattened response field map.
	Fields map[string]any
}

// GatewayAdapter is the port for the remote card-payment gateway. Each call
// is one synchronous signed-request/response exchange; there is no internal
// retry, because card-network operations must not be silently resubmitted.
// Implementations hold only immutable state and are safe for concurrent use
// when the injected HTTP client is.
type GatewayAdapter interface {
	Purchase(ctx context.Context, req *PurchaseRequest) (*GatewayResult, error)
	Authorize(ctx context.Context, req *AuthorizeRequest) (*GatewayResult, error)
	Capture(ctx context.Context, req *CaptureRequest) (*GatewayResult, error)
	Refund(ctx context.Context, req *RefundRequest) (*GatewayResult, error)
	Void(ctx context.Context, req *VoidRequest) (*GatewayResult, error)
	Credit(ctx context.Context, req *CreditRequest) (*GatewayResult, error)
	CreatePayer(ctx context.Context, req *CreatePayerRequest) (*GatewayResult, error)
	StoreCard(ctx context.Context, req *StoreCardRequest) (*GatewayResult, error)
	PurchaseFromStored(ctx context.Context, req *StoredPurchaseRequest) (*GatewayResult, error)
}
