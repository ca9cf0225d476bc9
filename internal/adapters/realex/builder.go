package realex

import (
	"github.com/cobaltpay/realex-gateway/internal/adapters/ports"
	"github.com/cobaltpay/realex-gateway/internal/domain/models"
	"github.com/cobaltpay/realex-gateway/internal/util"
)

// Request type attribute per operation.
const (
	requestTypeAuth      = "auth"
	requestTypeReceiptIn = "receipt-in"
	requestTypePayerNew  = "payer-new"
	requestTypeCardNew   = "card-new"
	requestTypeSettle    = "settle"
	requestTypeRebate    = "rebate"
	requestTypeCredit    = "credit"
	requestTypeVoid      = "void"
)

// Auto-settle: "1" captures funds immediately, "0" only reserves them
// pending a later settle.
const (
	autoSettleOff = "0"
	autoSettleOn  = "1"
)

// cardTypeCodes maps card brands to the gateway's network codes.
var cardTypeCodes = map[models.CardBrand]string{
	models.BrandVisa:       "VISA",
	models.BrandMastercard: "MC",
	models.BrandAmex:       "AMEX",
	models.BrandDinersClub: "DINERS",
	models.BrandSwitch:     "SWITCH",
	models.BrandSolo:       "SWITCH",
	models.BrandLaser:      "LASER",
}

// requestBuilder composes the signed XML request documents. Field order
// inside each document and inside each digest is part of the wire contract;
// nothing here may be reordered. The sha1hash element is always the last
// child of the request.
type requestBuilder struct {
	creds *MerchantCredentials
}

// payment builds the purchase/authorize document (type "auth"). The two
// operations differ only in the auto-settle flag.
func (b *requestBuilder) payment(timestamp, orderID string, amount models.Money, card models.CreditCard, info ports.TransactionInfo, settleFlag string) string {
	orderID = util.SanitizeOrderID(orderID)
	currency := currencyFor(amount, info)

	root := b.rootRequest(timestamp, requestTypeAuth)
	b.addMerchant(root, info.Account)
	root.child("orderid").setText(orderID)
	addAmount(root, amount, currency)
	addCard(root, card, "", "", info.CVVPresence)
	root.child("autosettle").attr("flag", settleFlag)
	addComments(root, info.Description)
	addTSSInfo(root, info)
	b.addSignature(root, timestamp, b.creds.login, orderID, amount.MinorUnits(), currency, card.Number)
	return root.String()
}

// storedPurchase builds the receipt-in document charging a vault-stored
// card.
func (b *requestBuilder) storedPurchase(timestamp string, req *ports.StoredPurchaseRequest) string {
	orderID := util.SanitizeOrderID(req.OrderID)
	currency := currencyFor(req.Amount, req.TransactionInfo)

	root := b.rootRequest(timestamp, requestTypeReceiptIn)
	b.addMerchant(root, req.Account)
	root.child("orderid").setText(orderID)
	if req.CVN != "" {
		payment := root.child("payment")
		payment.child("cvn").child("number").setText(req.CVN)
	}
	root.child("autosettle").attr("flag", autoSettleOn)
	addAmount(root, req.Amount, currency)
	root.child("payerref").setText(req.PayerRef)
	root.child("paymentmethod").setText(req.CardRef)
	addComments(root, req.Description)
	b.addSignature(root, timestamp, b.creds.login, orderID, req.Amount.MinorUnits(), currency, req.PayerRef)
	return root.String()
}

// createPayer builds the payer-new document registering a vault payer.
func (b *requestBuilder) createPayer(timestamp string, req *ports.CreatePayerRequest) string {
	orderID := util.SanitizeOrderID(req.OrderID)
	payerType := req.PayerType
	if payerType == "" {
		payerType = "Business"
	}

	root := b.rootRequest(timestamp, requestTypePayerNew)
	b.addMerchant(root, req.Account)
	root.child("orderid").setText(orderID)
	root.child("firstname").setText(req.FirstName)
	root.child("surname").setText(req.LastName)
	root.child("payer").attr("type", payerType).attr("ref", req.PayerRef)
	if req.Address != nil {
		addr := root.child("address")
		addr.child("line1").setText(req.Address.Line1)
		addr.child("line2").setText(req.Address.Line2)
		addr.child("line3").setText(req.Address.Line3)
		addr.child("city").setText(req.Address.City)
		addr.child("county").setText(req.Address.County)
		addr.child("postcode").setText(req.Address.PostCode)
	}
	// amount/currency positions present but empty
	b.addSignature(root, timestamp, b.creds.login, orderID, "", "", req.PayerRef)
	return root.String()
}

// storeCard builds the card-new document storing a card against a payer.
func (b *requestBuilder) storeCard(timestamp string, req *ports.StoreCardRequest) string {
	orderID := util.SanitizeOrderID(req.OrderID)

	root := b.rootRequest(timestamp, requestTypeCardNew)
	b.addMerchant(root, req.Account)
	root.child("orderid").setText(orderID)
	addCard(root, req.Card, req.CardRef, req.PayerRef, req.CVVPresence)
	b.addSignature(root, timestamp, b.creds.login, orderID, "", "", req.PayerRef, req.Card.Name, req.Card.Number)
	return root.String()
}

// capture builds the settle document for a prior authorization.
func (b *requestBuilder) capture(timestamp string, req *ports.CaptureRequest) (string, error) {
	return b.reference(timestamp, requestTypeSettle, req.Authorization, req.TransactionInfo)
}

// void builds the void document cancelling a prior transaction.
func (b *requestBuilder) void(timestamp string, req *ports.VoidRequest) (string, error) {
	return b.reference(timestamp, requestTypeVoid, req.Authorization, req.TransactionInfo)
}

// reference is the shared settle/void shape: transaction identifiers only,
// with empty amount/currency positions in the digest.
func (b *requestBuilder) reference(timestamp, requestType, authorization string, info ports.TransactionInfo) (string, error) {
	orderID, pasRef, authCode, err := decodeAuthorization(authorization)
	if err != nil {
		return "", err
	}
	orderID = util.SanitizeOrderID(orderID)

	root := b.rootRequest(timestamp, requestType)
	b.addMerchant(root, info.Account)
	addTransactionIdentifiers(root, orderID, pasRef, authCode)
	addComments(root, info.Description)
	b.addSignature(root, timestamp, b.creds.login, orderID, "", "", "")
	return root.String(), nil
}

// refund builds the rebate document against a settled transaction. Unlike
// settle/void, the digest carries the real amount and currency.
func (b *requestBuilder) refund(timestamp string, req *ports.RefundRequest) (string, error) {
	orderID, pasRef, authCode, err := decodeAuthorization(req.Authorization)
	if err != nil {
		return "", err
	}
	orderID = util.SanitizeOrderID(orderID)
	currency := currencyFor(req.Amount, req.TransactionInfo)

	root := b.rootRequest(timestamp, requestTypeRebate)
	b.addMerchant(root, req.Account)
	addTransactionIdentifiers(root, orderID, pasRef, authCode)
	addAmount(root, req.Amount, currency)
	b.addRefundHash(root)
	root.child("autosettle").attr("flag", autoSettleOn)
	addComments(root, req.Description)
	b.addSignature(root, timestamp, b.creds.login, orderID, req.Amount.MinorUnits(), currency, "")
	return root.String(), nil
}

// credit builds the credit document paying out to a card with no prior
// transaction reference.
func (b *requestBuilder) credit(timestamp string, req *ports.CreditRequest) string {
	orderID := util.SanitizeOrderID(req.OrderID)
	currency := currencyFor(req.Amount, req.TransactionInfo)

	root := b.rootRequest(timestamp, requestTypeCredit)
	b.addMerchant(root, req.Account)
	root.child("orderid").setText(orderID)
	addAmount(root, req.Amount, currency)
	b.addRefundHash(root)
	addCard(root, req.Card, "", "", req.CVVPresence)
	root.child("autosettle").attr("flag", autoSettleOn)
	addComments(root, req.Description)
	b.addSignature(root, timestamp, b.creds.login, orderID, req.Amount.MinorUnits(), currency, "")
	return root.String()
}

func (b *requestBuilder) rootRequest(timestamp, requestType string) *element {
	return newElement("request").attr("timestamp", timestamp).attr("type", requestType)
}

// addMerchant emits the merchant id and the effective sub-account. A
// request-level account overrides the client-level default.
func (b *requestBuilder) addMerchant(root *element, account string) {
	root.child("merchantid").setText(b.creds.login)
	if account == "" {
		account = b.creds.account
	}
	if account != "" {
		root.child("account").setText(account)
	}
}

// addRefundHash emits the precomputed rebate hash when the client was
// configured with a rebate secret. This is gateway-specific additional
// authentication, independent of the request signature.
func (b *requestBuilder) addRefundHash(root *element) {
	if b.creds.refundHash != "" {
		root.child("refundhash").setText(b.creds.refundHash)
	}
}

// addSignature computes the request signature over the given ordered fields
// and appends it. Callers must invoke this last so sha1hash stays the final
// element.
func (b *requestBuilder) addSignature(root *element, fields ...string) {
	root.child("sha1hash").setText(sign(b.creds.secret, fields...))
}

func currencyFor(amount models.Money, info ports.TransactionInfo) string {
	if info.Currency != "" {
		return info.Currency
	}
	return amount.Currency
}

func addAmount(root *element, amount models.Money, currency string) {
	root.child("amount").attr("currency", currency).setText(amount.MinorUnits())
}

// addCard emits the card block. With a card/payer reference pair the block
// carries the vault tokens instead of a cvn block.
func addCard(root *element, card models.CreditCard, cardRef, payerRef, cvvPresence string) {
	c := root.child("card")
	c.child("number").setText(card.Number)
	c.child("expdate").setText(card.ExpiryDate())
	c.child("chname").setText(card.Name)
	c.child("type").setText(cardTypeCodes[card.Brand])
	c.child("issueno").setText(card.IssueNumber)
	if cardRef != "" {
		c.child("ref").setText(cardRef)
		c.child("payerref").setText(payerRef)
		return
	}
	cvn := c.child("cvn")
	cvn.child("number").setText(card.VerificationValue)
	presind := cvvPresence
	if presind == "" && card.HasVerificationValue() {
		presind = "1"
	}
	cvn.child("presind").setText(presind)
}

func addTransactionIdentifiers(root *element, orderID, pasRef, authCode string) {
	root.child("orderid").setText(orderID)
	root.child("pasref").setText(pasRef)
	root.child("authcode").setText(authCode)
}

func addComments(root *element, description string) {
	if description == "" {
		return
	}
	comment := newElement("comment").attr("id", "1").setText(description)
	root.child("comments").add(comment)
}

// addTSSInfo emits the transaction screening block on purchase/authorize,
// only when at least one screening input is present.
func addTSSInfo(root *element, info ports.TransactionInfo) {
	if info.CustomerNumber == "" && info.InvoiceID == "" && info.CustomerIP == "" &&
		info.BillingAddress == nil && info.ShippingAddress == nil {
		return
	}

	tss := root.child("tssinfo")
	if info.CustomerNumber != "" {
		tss.child("custnum").setText(info.CustomerNumber)
	}
	if info.InvoiceID != "" {
		tss.child("prodid").setText(info.InvoiceID)
	}
	if info.CustomerIP != "" {
		tss.child("custipaddress").setText(info.CustomerIP)
	}
	if info.BillingAddress != nil {
		addr := tss.child("address").attr("type", "billing")
		addr.child("code").setText(avsInputCode(*info.BillingAddress))
		addr.child("country").setText(info.BillingAddress.Country)
	}
	if info.ShippingAddress != nil {
		addr := tss.child("address").attr("type", "shipping")
		addr.child("code").setText(info.ShippingAddress.PostCode)
		addr.child("country").setText(info.ShippingAddress.Country)
	}
}

// avsInputCode derives the billing address verification code: the digits of
// the postal code and of the first address line, joined by "|".
func avsInputCode(addr models.Address) string {
	return extractDigits(addr.PostCode) + "|" + extractDigits(addr.Line1)
}

func extractDigits(s string) string {
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
