package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabriss.backend/internal/config"
	domainerrors "collabriss.backend/internal/domain/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *FlutterwaveClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFlutterwaveClient(config.PaymentConfig{
		GatewayBaseURL: srv.URL + "/",
		SecretKey:      "FLWSECK_TEST-secret",
		RequestTimeout: time.Second,
	})
}

func TestVerifyTransaction_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/transactions/4975363/verify", r.URL.Path)
		assert.Equal(t, "Bearer FLWSECK_TEST-secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"message": "Transaction fetched successfully",
			"data": {"id": 4975363, "tx_ref": "collabriss-abc", "status": "successful", "amount": 3200, "currency": "NGN"}
		}`))
	})

	tx, err := client.VerifyTransaction(context.Background(), "4975363")
	require.NoError(t, err)
	require.Equal(t, "4975363", tx.ID)
	require.Equal(t, "collabriss-abc", tx.TxRef)
	require.Equal(t, "successful", tx.Status)
	require.Equal(t, "NGN", tx.Currency)
	require.True(t, decimal.NewFromInt(3200).Equal(tx.Amount))
}

func TestVerifyTransaction_FractionalAmount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":1,"tx_ref":"r","status":"successful","amount":1234.56,"currency":"NGN"}}`))
	})

	tx, err := client.VerifyTransaction(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "1234.56", tx.Amount.StringFixed(2))
}

func TestVerifyTransaction_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"error","message":"No transaction was found for this id","data":null}`))
	})

	_, err := client.VerifyTransaction(context.Background(), "404")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerifyTransaction_ErrorEnvelopeIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","message":"bad","data":null}`))
	})

	_, err := client.VerifyTransaction(context.Background(), "1")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestVerifyTransaction_UnknownIDBadRequestIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"No transaction was found for this id","data":null}`))
	})

	_, err := client.VerifyTransaction(context.Background(), "99999999")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	require.NotErrorIs(t, err, domainerrors.ErrGatewayUnavailable)
}

func TestVerifyTransaction_GatewayUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"unauthorized with error envelope": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","message":"Invalid authorization key","data":null}`))
		},
		"rate limited": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"status":"error","message":"slow down"}`))
		},
		"bad request without envelope": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<html>bad request</html>`))
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)
			_, err := client.VerifyTransaction(context.Background(), "1")
			require.ErrorIs(t, err, domainerrors.ErrGatewayUnavailable)
		})
	}
}

func TestVerifyTransaction_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client.http.Timeout = 50 * time.Millisecond

	_, err := client.VerifyTransaction(context.Background(), "1")
	require.ErrorIs(t, err, domainerrors.ErrGatewayUnavailable)
}

func TestNewFlutterwaveClient_DefaultTimeout(t *testing.T) {
	client := NewFlutterwaveClient(config.PaymentConfig{GatewayBaseURL: "https://api.flutterwave.com"})
	require.Equal(t, 15*time.Second, client.http.Timeout)
	require.Equal(t, "https://api.flutterwave.com", client.baseURL)
}
