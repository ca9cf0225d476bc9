package realex

// Result codes and fixed advisory messages. The gateway reuses the same
// wording for bank-side and gateway-internal maintenance windows, and for
// generic errors and deactivated clients; the categories stay distinct for
// classification even where the text coincides.
const (
	resultApproved = "00"

	msgSuccess           = "Successful"
	msgDeclined          = "Declined"
	msgBankError         = "Gateway is in maintenance. Please try again later."
	msgGatewayError      = "Gateway is in maintenance. Please try again later."
	msgError             = "Gateway Error"
	msgClientDeactivated = "Gateway Error"
)

// classify maps a gateway result code to the approval outcome and an
// advisory message. Approval is decided solely by the code "00"; the message
// is human text only and must never be used to infer success. Unknown codes
// are always treated as declines.
func classify(code, gatewayMessage string) (approved bool, message string) {
	switch {
	case code == resultApproved:
		return true, msgSuccess
	case code == "101":
		// caller error, e.g. bad card data; the gateway message is specific
		return false, gatewayMessage
	case code == "102" || code == "103":
		// referral cases
		return false, msgDeclined
	case inCodeClass(code, '2'):
		// bank-side error
		return false, msgBankError
	case inCodeClass(code, '3'):
		// gateway-internal error
		return false, msgGatewayError
	case inCodeClass(code, '5'):
		// validation errors, e.g. bad expiry/CVN/mandatory field
		return false, gatewayMessage
	case code == "600" || code == "601" || code == "603":
		return false, msgError
	case code == "666":
		return false, msgClientDeactivated
	default:
		// unknown codes are never a success
		return false, msgDeclined
	}
}

// inCodeClass reports whether the code starts with the given hundreds digit
// followed by two more digits, e.g. inCodeClass("205", '2').
func inCodeClass(code string, class byte) bool {
	if len(code) < 3 || code[0] != class {
		return false
	}
	return isDigit(code[1]) && isDigit(code[2])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
