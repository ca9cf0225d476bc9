package realex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltpay/realex-gateway/pkg/errors"
)

func TestParseResponse_LeafAndAttributes(t *testing.T) {
	// amount has an attribute but no child elements, so it stays a leaf:
	// the currency attribute does not become a field.
	body := `<response><result>00</result><amount currency="EUR">100</amount></response>`

	fields, err := parseResponse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "00", fields.String("result"))
	assert.Equal(t, "100", fields.String("amount"))
	assert.NotContains(t, fields, "amount_currency")
	assert.Len(t, fields, 2)
}

func TestParseResponse_NestedElements(t *testing.T) {
	body := `<response timestamp="20230601120000">
		<result>00</result>
		<message>[ test system ] Successful</message>
		<orderid>order-1</orderid>
		<pasref>14610544313177922</pasref>
		<authcode>12345</authcode>
		<cardissuer>
			<bank>AIB BANK</bank>
			<country>IRELAND</country>
		</cardissuer>
	</response>`

	fields, err := parseResponse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "00", fields.String("result"))
	assert.Equal(t, "order-1", fields.String("orderid"))
	assert.Equal(t, "AIB BANK", fields.String("cardissuer_bank"))
	assert.Equal(t, "IRELAND", fields.String("cardissuer_country"))
	// the parent of nested elements does not itself become a field
	assert.NotContains(t, fields, "cardissuer")
}

func TestParseResponse_TagNamesLowercased(t *testing.T) {
	body := `<response><Result>00</Result><CardIssuer><Bank>AIB</Bank></CardIssuer></response>`

	fields, err := parseResponse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, "00", fields.String("result"))
	assert.Equal(t, "AIB", fields.String("cardissuer_bank"))
}

func TestParseResponse_ScalarNormalization(t *testing.T) {
	body := `<response>
		<flagtrue>true</flagtrue>
		<flagfalse>false</flagfalse>
		<blank></blank>
		<nullliteral>null</nullliteral>
		<code>00</code>
	</response>`

	fields, err := parseResponse([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, true, fields["flagtrue"])
	assert.Equal(t, false, fields["flagfalse"])

	// empty and "null" become absent values, never the literal strings
	assert.Contains(t, fields, "blank")
	assert.Nil(t, fields["blank"])
	assert.Contains(t, fields, "nullliteral")
	assert.Nil(t, fields["nullliteral"])
	assert.Equal(t, "", fields.String("blank"))
	assert.Equal(t, "", fields.String("nullliteral"))

	// numeric-looking codes stay strings for prefix matching
	assert.Equal(t, "00", fields["code"])
}

func TestParseResponse_EmptyAndMissingRoot(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "whitespace body", body: "  \n\t "},
		{name: "wrong root element", body: "<reply><result>00</result></reply>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := parseResponse([]byte(tt.body))
			require.NoError(t, err)
			assert.True(t, fields.Empty())
		})
	}
}

func TestParseResponse_InvalidXML(t *testing.T) {
	_, err := parseResponse([]byte("<response><result>00</result>"))
	require.Error(t, err)

	var malformed *errors.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestFields_Accessors(t *testing.T) {
	fields := Fields{"s": "text", "b": true, "n": nil}

	assert.Equal(t, "text", fields.String("s"))
	assert.Equal(t, "", fields.String("b"))
	assert.Equal(t, "", fields.String("missing"))
	assert.True(t, fields.Bool("b"))
	assert.False(t, fields.Bool("s"))
	assert.False(t, fields.Empty())
	assert.True(t, Fields{}.Empty())
}
