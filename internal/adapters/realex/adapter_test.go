package realex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cobaltpay/realex-gateway/internal/adapters/ports"
	"github.com/cobaltpay/realex-gateway/pkg/errors"
	pkghttp "github.com/cobaltpay/realex-gateway/pkg/http"
	"github.com/cobaltpay/realex-gateway/test/mocks"
)

func newTestAdapter(t *testing.T, client ports.HTTPClient) *gatewayAdapter {
	t.Helper()
	adapter := NewGatewayAdapter(nil, testCredentials(t, ""), client, zap.NewNop()).(*gatewayAdapter)
	adapter.now = func() time.Time {
		return time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return adapter
}

func mockResponse(body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
			Header:     make(http.Header),
		}, nil
	}
}

func TestAdapter_AuthorizeThenCapture(t *testing.T) {
	var captureBody string
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var doc testNode
		require.NoError(t, xml.Unmarshal(body, &doc))
		assert.Equal(t, "text/xml", r.Header.Get("Content-Type"))
		assert.Equal(t, testTimestamp, doc.attr("timestamp"))

		switch doc.attr("type") {
		case "auth":
			assert.Equal(t, "0", doc.find("autosettle").attr("flag"))
			fmt.Fprint(w, `<response timestamp="20230601120001">
				<result>00</result>
				<message>[ test system ] Successful</message>
				<orderid>order-1</orderid>
				<pasref>14610544313177922</pasref>
				<authcode>12345</authcode>
				<cvnresult>M</cvnresult>
				<avspostcoderesponse>M</avspostcoderesponse>
			</response>`)
		case "settle":
			captureBody = string(body)
			fmt.Fprint(w, `<response><result>00</result><message>Settled Successfully</message><pasref>14610544313177923</pasref></response>`)
		default:
			t.Errorf("unexpected request type %q", doc.attr("type"))
		}
	}))
	defer server.Close()

	adapter := newTestAdapter(t, nil)
	adapter.config = &Config{URL: server.URL, VaultURL: server.URL, Timeout: 5 * time.Second}

	auth, err := adapter.Authorize(context.Background(), &ports.AuthorizeRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.NoError(t, err)
	assert.True(t, auth.Success)
	assert.Equal(t, "00", auth.ResultCode)
	assert.Equal(t, "order-1;14610544313177922;12345", auth.Authorization)
	assert.Equal(t, "M", auth.CVVResult)
	assert.Equal(t, "M", auth.AVSPostcodeResult)
	assert.True(t, auth.TestMode)

	capture, err := adapter.Capture(context.Background(), &ports.CaptureRequest{
		Authorization: auth.Authorization,
	})
	require.NoError(t, err)
	assert.True(t, capture.Success)
	assert.Equal(t, 2, requests)

	// the capture document carries the identifiers from the authorize result
	var doc testNode
	require.NoError(t, xml.Unmarshal([]byte(captureBody), &doc))
	assert.Equal(t, "order-1", doc.text("orderid"))
	assert.Equal(t, "14610544313177922", doc.text("pasref"))
	assert.Equal(t, "12345", doc.text("authcode"))
}

func TestAdapter_ValidationFailsBeforeTransport(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := newTestAdapter(t, client)
	ctx := context.Background()

	tests := []struct {
		name  string
		field string
		call  func() (*ports.GatewayResult, error)
	}{
		{
			name:  "purchase without order id",
			field: "order_id",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Purchase(ctx, &ports.PurchaseRequest{Amount: testAmount(), Card: testCard()})
			},
		},
		{
			name:  "purchase without card number",
			field: "card.number",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Purchase(ctx, &ports.PurchaseRequest{OrderID: "order-1", Amount: testAmount()})
			},
		},
		{
			name:  "authorize without order id",
			field: "order_id",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Authorize(ctx, &ports.AuthorizeRequest{Amount: testAmount(), Card: testCard()})
			},
		},
		{
			name:  "capture without authorization",
			field: "authorization",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Capture(ctx, &ports.CaptureRequest{})
			},
		},
		{
			name:  "refund without amount",
			field: "amount",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Refund(ctx, &ports.RefundRequest{Authorization: "a;b;c"})
			},
		},
		{
			name:  "void without authorization",
			field: "authorization",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Void(ctx, &ports.VoidRequest{})
			},
		},
		{
			name:  "credit without card",
			field: "card.number",
			call: func() (*ports.GatewayResult, error) {
				return adapter.Credit(ctx, &ports.CreditRequest{Amount: testAmount()})
			},
		},
		{
			name:  "create payer without payer ref",
			field: "payer_ref",
			call: func() (*ports.GatewayResult, error) {
				return adapter.CreatePayer(ctx, &ports.CreatePayerRequest{OrderID: "order-1"})
			},
		},
		{
			name:  "store card without payer ref",
			field: "payer_ref",
			call: func() (*ports.GatewayResult, error) {
				return adapter.StoreCard(ctx, &ports.StoreCardRequest{OrderID: "order-1", Card: testCard()})
			},
		},
		{
			name:  "stored purchase without payer ref",
			field: "payer_ref",
			call: func() (*ports.GatewayResult, error) {
				return adapter.PurchaseFromStored(ctx, &ports.StoredPurchaseRequest{OrderID: "order-1", Amount: testAmount()})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call()
			require.Error(t, err)
			assert.Nil(t, result)

			var vErr *errors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	assert.Empty(t, client.Calls, "validation failures must not reach the transport")
}

func TestAdapter_NilRequest(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := newTestAdapter(t, client)

	_, err := adapter.Purchase(context.Background(), nil)
	var vErr *errors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, client.Calls)
}

func TestAdapter_MalformedAuthorizationToken(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := newTestAdapter(t, client)

	_, err := adapter.Capture(context.Background(), &ports.CaptureRequest{Authorization: "just-an-order-id"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedAuthorization)
	assert.Empty(t, client.Calls)
}

func TestAdapter_TransportErrorPropagates(t *testing.T) {
	client := mocks.NewMockHTTPClient(func(*http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})
	adapter := newTestAdapter(t, client)

	result, err := adapter.Purchase(context.Background(), &ports.PurchaseRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAdapter_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := pkghttp.NewValidatingClient(pkghttp.GatewayClientConfig(), 5*time.Second)
	adapter := newTestAdapter(t, client)
	adapter.config = &Config{URL: server.URL, VaultURL: server.URL, Timeout: 5 * time.Second}

	result, err := adapter.Purchase(context.Background(), &ports.PurchaseRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.Error(t, err)
	assert.Nil(t, result)

	var tErr *errors.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, http.StatusServiceUnavailable, tErr.StatusCode)
}

func TestAdapter_DeclinedIsNotAnError(t *testing.T) {
	client := mocks.NewMockHTTPClient(mockResponse(
		`<response><result>101</result><message>Declined by bank</message><orderid>order-1</orderid><pasref>555</pasref></response>`,
	))
	adapter := newTestAdapter(t, client)

	result, err := adapter.Purchase(context.Background(), &ports.PurchaseRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "101", result.ResultCode)
	assert.Equal(t, "Declined by bank", result.Message)
	// partial identifiers still produce a three-position token
	assert.Equal(t, "order-1;555;", result.Authorization)
}

func TestAdapter_MalformedResponseBody(t *testing.T) {
	client := mocks.NewMockHTTPClient(mockResponse(`<response><result>00`))
	adapter := newTestAdapter(t, client)

	result, err := adapter.Purchase(context.Background(), &ports.PurchaseRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.Error(t, err)
	assert.Nil(t, result)

	var mErr *errors.MalformedResponseError
	assert.ErrorAs(t, err, &mErr)
}

func TestAdapter_EmptyResponseBody(t *testing.T) {
	client := mocks.NewMockHTTPClient(mockResponse(""))
	adapter := newTestAdapter(t, client)

	result, err := adapter.Purchase(context.Background(), &ports.PurchaseRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Declined", result.Message)
	assert.Empty(t, result.Fields)
	assert.Equal(t, ";;", result.Authorization)
}

func TestAdapter_VaultEndpointSelection(t *testing.T) {
	client := mocks.NewMockHTTPClient(nil)
	adapter := newTestAdapter(t, client)
	adapter.config = &Config{
		URL:      "https://gateway.example.com/standard",
		VaultURL: "https://gateway.example.com/vault",
	}
	ctx := context.Background()

	_, err := adapter.Purchase(ctx, &ports.PurchaseRequest{OrderID: "o1", Amount: testAmount(), Card: testCard()})
	require.NoError(t, err)
	_, err = adapter.CreatePayer(ctx, &ports.CreatePayerRequest{OrderID: "o2", PayerRef: "p1"})
	require.NoError(t, err)
	_, err = adapter.StoreCard(ctx, &ports.StoreCardRequest{OrderID: "o3", PayerRef: "p1", Card: testCard()})
	require.NoError(t, err)
	_, err = adapter.PurchaseFromStored(ctx, &ports.StoredPurchaseRequest{OrderID: "o4", Amount: testAmount(), PayerRef: "p1"})
	require.NoError(t, err)

	require.Len(t, client.Calls, 4)
	assert.True(t, strings.HasSuffix(client.Calls[0].URL.Path, "/standard"))
	assert.True(t, strings.HasSuffix(client.Calls[1].URL.Path, "/vault"))
	assert.True(t, strings.HasSuffix(client.Calls[2].URL.Path, "/vault"))
	assert.True(t, strings.HasSuffix(client.Calls[3].URL.Path, "/vault"))
}

func TestAdapter_RefundAndVoidRoundTrip(t *testing.T) {
	var types []string
	client := mocks.NewMockHTTPClient(func(r *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		var doc testNode
		if err := xml.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		types = append(types, doc.attr("type"))
		return mockResponse(`<response><result>00</result></response>`)(r)
	})
	adapter := newTestAdapter(t, client)
	ctx := context.Background()
	token := encodeAuthorization("order-1", "pasref-1", "auth-1")

	refund, err := adapter.Refund(ctx, &ports.RefundRequest{Authorization: token, Amount: testAmount()})
	require.NoError(t, err)
	assert.True(t, refund.Success)

	void, err := adapter.Void(ctx, &ports.VoidRequest{Authorization: token})
	require.NoError(t, err)
	assert.True(t, void.Success)

	assert.Equal(t, []string{"rebate", "void"}, types)
}

func TestAdapter_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := pkghttp.NewValidatingClient(pkghttp.GatewayClientConfig(), 30*time.Second)
	adapter := newTestAdapter(t, client)
	adapter.config = &Config{URL: server.URL, VaultURL: server.URL}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := adapter.Purchase(ctx, &ports.PurchaseRequest{
		OrderID: "order-1",
		Amount:  testAmount(),
		Card:    testCard(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
