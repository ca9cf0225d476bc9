package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cobaltpay/realex-gateway/pkg/errors"
)

func TestValidatingClient_PassesThroughSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := WrapClient(server.Client())
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestValidatingClient_RejectsNon2xx(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"client error", http.StatusBadRequest},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"bad gateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := WrapClient(server.Client())
			req, err := http.NewRequest(http.MethodPost, server.URL, nil)
			require.NoError(t, err)

			resp, err := client.Do(req)
			require.Error(t, err)
			assert.Nil(t, resp)

			var tErr *errors.TransportError
			require.ErrorAs(t, err, &tErr)
			assert.Equal(t, tt.status, tErr.StatusCode)
			assert.Equal(t, server.URL, tErr.URL)
		})
	}
}

func TestValidatingClient_WrapsConnectionError(t *testing.T) {
	client := NewValidatingClient(GatewayClientConfig(), 1*time.Second)
	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:1", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.Error(t, err)
	assert.Nil(t, resp)

	var tErr *errors.TransportError
	require.ErrorAs(t, err, &tErr)
	assert.NotNil(t, tErr.Err)
}
