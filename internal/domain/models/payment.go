package models

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// CardBrand identifies the card network a credit card belongs to.
type CardBrand string

const (
	BrandVisa       CardBrand = "visa"
	BrandMastercard CardBrand = "master"
	BrandAmex       CardBrand = "american_express"
	BrandDinersClub CardBrand = "diners_club"
	BrandSwitch     CardBrand = "switch"
	BrandSolo       CardBrand = "solo"
	BrandLaser      CardBrand = "laser"
)

// Money is a monetary amount in minor units (cents) with an ISO 4217
// currency code. The gateway wire format carries minor units only, so the
// minor-unit integer is the canonical representation.
type Money struct {
	Cents    int64
	Currency string
}

// NewMoney converts a major-unit decimal amount (e.g. 19.99) into Money.
// Fractions beyond the minor unit are rounded half-up.
func NewMoney(major decimal.Decimal, currency string) Money {
	cents := major.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return Money{Cents: cents, Currency: currency}
}

// NewMoneyFromCents builds Money directly from a minor-unit amount.
func NewMoneyFromCents(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// MinorUnits renders the amount as the minor-unit integer string the
// gateway expects (e.g. EUR 100.00 -> "10000").
func (m Money) MinorUnits() string {
	return strconv.FormatInt(m.Cents, 10)
}

// Decimal returns the major-unit decimal value (e.g. 10000 cents -> 100.00).
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}

// CreditCard holds raw card data passed through to the gateway. The adapter
// performs no PAN/expiry/CVV format validation; that is the caller's concern.
type CreditCard struct {
	Number            string
	Month             int
	Year              int
	Name              string // cardholder name
	Brand             CardBrand
	IssueNumber       string
	VerificationValue string // CVV/CVN
}

// ExpiryDate formats the expiry as the 4-digit MMYY the gateway expects.
func (c CreditCard) ExpiryDate() string {
	return fmt.Sprintf("%02d%02d", c.Month, c.Year%100)
}

// HasVerificationValue reports whether a CVV was supplied.
func (c CreditCard) HasVerificationValue() bool {
	return c.VerificationValue != ""
}

// Address carries billing or shipping address data for payer records and
// transaction screening.
type Address struct {
	Line1    string
	Line2    string
	Line3    string
	City     string
	County   string
	PostCode string
	Country  string
}
