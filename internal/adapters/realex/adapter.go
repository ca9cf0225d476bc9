package realex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cobaltpay/realex-gateway/internal/adapters/ports"
	"github.com/cobaltpay/realex-gateway/pkg/errors"
	pkghttp "github.com/cobaltpay/realex-gateway/pkg/http"
	"github.com/cobaltpay/realex-gateway/pkg/observability"
)

// timestampFormat is the gateway's request timestamp: YYYYMMDDHHMMSS.
const timestampFormat = "20060102150405"

// gatewayAdapter implements the GatewayAdapter port. It holds only immutable
// credentials and configuration, so concurrent use is safe when the injected
// HTTP client is. Every operation is one signed exchange; nothing is ever
// retried here because a silent resubmission risks a duplicate authorization.
type gatewayAdapter struct {
	config     *Config
	creds      *MerchantCredentials
	builder    *requestBuilder
	httpClient ports.HTTPClient
	logger     *zap.Logger
	now        func() time.Time
}

// NewGatewayAdapter creates a Realex gateway adapter. A nil config selects
// the production endpoints; a nil httpClient selects the default validating
// transport. The caller owns timeout and cancellation policy through the
// transport and the per-call context.
func NewGatewayAdapter(config *Config, creds *MerchantCredentials, httpClient ports.HTTPClient, logger *zap.Logger) ports.GatewayAdapter {
	if config == nil {
		config = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = pkghttp.NewValidatingClient(pkghttp.GatewayClientConfig(), config.Timeout)
	}
	return &gatewayAdapter{
		config:     config,
		creds:      creds,
		builder:    &requestBuilder{creds: creds},
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

func (a *gatewayAdapter) Purchase(ctx context.Context, req *ports.PurchaseRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationPurchase, "request", "is required")
	}
	if req.OrderID == "" {
		return nil, reject(ports.OperationPurchase, "order_id", "is required")
	}
	if req.Card.Number == "" {
		return nil, reject(ports.OperationPurchase, "card.number", "is required")
	}
	doc := a.builder.payment(a.timestamp(), req.OrderID, req.Amount, req.Card, req.TransactionInfo, autoSettleOn)
	return a.commit(ctx, ports.OperationPurchase, a.config.URL, doc)
}

func (a *gatewayAdapter) Authorize(ctx context.Context, req *ports.AuthorizeRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationAuthorize, "request", "is required")
	}
	if req.OrderID == "" {
		return nil, reject(ports.OperationAuthorize, "order_id", "is required")
	}
	if req.Card.Number == "" {
		return nil, reject(ports.OperationAuthorize, "card.number", "is required")
	}
	doc := a.builder.payment(a.timestamp(), req.OrderID, req.Amount, req.Card, req.TransactionInfo, autoSettleOff)
	return a.commit(ctx, ports.OperationAuthorize, a.config.URL, doc)
}

func (a *gatewayAdapter) Capture(ctx context.Context, req *ports.CaptureRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationCapture, "request", "is required")
	}
	if req.Authorization == "" {
		return nil, reject(ports.OperationCapture, "authorization", "is required")
	}
	doc, err := a.builder.capture(a.timestamp(), req)
	if err != nil {
		return nil, err
	}
	return a.commit(ctx, ports.OperationCapture, a.config.URL, doc)
}

func (a *gatewayAdapter) Refund(ctx context.Context, req *ports.RefundRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationRefund, "request", "is required")
	}
	if req.Authorization == "" {
		return nil, reject(ports.OperationRefund, "authorization", "is required")
	}
	if req.Amount.IsZero() {
		return nil, reject(ports.OperationRefund, "amount", "is required")
	}
	doc, err := a.builder.refund(a.timestamp(), req)
	if err != nil {
		return nil, err
	}
	return a.commit(ctx, ports.OperationRefund, a.config.URL, doc)
}

func (a *gatewayAdapter) Void(ctx context.Context, req *ports.VoidRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationVoid, "request", "is required")
	}
	if req.Authorization == "" {
		return nil, reject(ports.OperationVoid, "authorization", "is required")
	}
	doc, err := a.builder.void(a.timestamp(), req)
	if err != nil {
		return nil, err
	}
	return a.commit(ctx, ports.OperationVoid, a.config.URL, doc)
}

func (a *gatewayAdapter) Credit(ctx context.Context, req *ports.CreditRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationCredit, "request", "is required")
	}
	if req.Card.Number == "" {
		return nil, reject(ports.OperationCredit, "card.number", "is required")
	}
	if req.Amount.IsZero() {
		return nil, reject(ports.OperationCredit, "amount", "is required")
	}
	doc := a.builder.credit(a.timestamp(), req)
	return a.commit(ctx, ports.OperationCredit, a.config.URL, doc)
}

func (a *gatewayAdapter) CreatePayer(ctx context.Context, req *ports.CreatePayerRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationCreatePayer, "request", "is required")
	}
	if req.PayerRef == "" {
		return nil, reject(ports.OperationCreatePayer, "payer_ref", "is required")
	}
	doc := a.builder.createPayer(a.timestamp(), req)
	return a.commit(ctx, ports.OperationCreatePayer, a.config.VaultURL, doc)
}

func (a *gatewayAdapter) StoreCard(ctx context.Context, req *ports.StoreCardRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationStoreCard, "request", "is required")
	}
	if req.PayerRef == "" {
		return nil, reject(ports.OperationStoreCard, "payer_ref", "is required")
	}
	if req.Card.Number == "" {
		return nil, reject(ports.OperationStoreCard, "card.number", "is required")
	}
	doc := a.builder.storeCard(a.timestamp(), req)
	return a.commit(ctx, ports.OperationStoreCard, a.config.VaultURL, doc)
}

func (a *gatewayAdapter) PurchaseFromStored(ctx context.Context, req *ports.StoredPurchaseRequest) (*ports.GatewayResult, error) {
	if req == nil {
		return nil, reject(ports.OperationPurchaseFromStored, "request", "is required")
	}
	if req.OrderID == "" {
		return nil, reject(ports.OperationPurchaseFromStored, "order_id", "is required")
	}
	if req.PayerRef == "" {
		return nil, reject(ports.OperationPurchaseFromStored, "payer_ref", "is required")
	}
	doc := a.builder.storedPurchase(a.timestamp(), req)
	return a.commit(ctx, ports.OperationPurchaseFromStored, a.config.VaultURL, doc)
}

func (a *gatewayAdapter) timestamp() string {
	return a.now().Format(timestampFormat)
}

// reject records a validation failure and returns it. Rejected requests
// never reach the transport.
func reject(op ports.Operation, field, message string) error {
	observability.RecordRejectedRequest(string(op))
	return errors.NewValidationError(field, message)
}

// commit drives one exchange: POST the signed document, parse the response
// body into flat fields, classify the result code, and assemble the
// normalized result carrying the authorization token for chaining.
func (a *gatewayAdapter) commit(ctx context.Context, op ports.Operation, url, doc string) (*ports.GatewayResult, error) {
	done := observability.TrackInFlight()
	defer done()
	start := time.Now()

	a.logger.Debug("sending gateway request",
		zap.String("operation", string(op)),
		zap.String("url", url),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordGatewayRequest(string(op), observability.OutcomeTransportError, time.Since(start))
		a.logger.Error("gateway request failed",
			zap.String("operation", string(op)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordGatewayRequest(string(op), observability.OutcomeTransportError, time.Since(start))
		return nil, fmt.Errorf("read response: %w", err)
	}

	fields, err := parseResponse(body)
	if err != nil {
		observability.RecordGatewayRequest(string(op), observability.OutcomeParseError, time.Since(start))
		a.logger.Error("failed to parse gateway response",
			zap.String("operation", string(op)),
			zap.Error(err),
		)
		return nil, err
	}

	result := resultFrom(fields)

	outcome := observability.OutcomeDeclined
	if result.Success {
		outcome = observability.OutcomeApproved
	}
	observability.RecordGatewayRequest(string(op), outcome, time.Since(start))

	a.logger.Info("gateway response",
		zap.String("operation", string(op)),
		zap.String("result", result.ResultCode),
		zap.Bool("approved", result.Success),
		zap.String("pasref", result.PasRef),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// resultFrom converts the flat field map into the strongly typed result.
// The authorization token is always assembled, with empty positions for
// fields the gateway did not return, so it keeps its three-position shape.
func resultFrom(fields Fields) *ports.GatewayResult {
	approved, message := classify(fields.String("result"), fields.String("message"))
	return &ports.GatewayResult{
		Success:           approved,
		Message:           message,
		ResultCode:        fields.String("result"),
		Authorization:     encodeAuthorization(fields.String("orderid"), fields.String("pasref"), fields.String("authcode")),
		OrderID:           fields.String("orderid"),
		PasRef:            fields.String("pasref"),
		AuthCode:          fields.String("authcode"),
		CVVResult:         fields.String("cvnresult"),
		AVSPostcodeResult: fields.String("avspostcoderesponse"),
		TestMode:          strings.Contains(fields.String("message"), "[ test system ]"),
		Fields:            fields,
	}
}
