package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(snapURL, coreURL string) *Client {
	return NewClient(config.MidtransConfig{
		ServerKey:      "SB-Mid-server-test",
		SnapBaseURL:    snapURL,
		CoreBaseURL:    coreURL,
		FinishURL:      "http://localhost/finish",
		TimeoutSeconds: 5,
	})
}

func TestSignatureRoundTrip(t *testing.T) {
	c := testClient("", "")

	raw := sha512.Sum512([]byte("ORDER-1" + "200" + "150000.00" + "SB-Mid-server-test"))
	want := hex.EncodeToString(raw[:])
	assert.Equal(t, want, c.Signature("ORDER-1", "200", "150000.00"))

	n := &Notification{
		OrderID:      "ORDER-1",
		StatusCode:   "200",
		GrossAmount:  "150000.00",
		SignatureKey: want,
	}
	assert.True(t, c.VerifySignature(n))

	n.SignatureKey = "deadbeef"
	assert.False(t, c.VerifySignature(n))

	// Tampered amount invalidates the signature.
	n.SignatureKey = want
	n.GrossAmount = "1.00"
	assert.False(t, c.VerifySignature(n))
}

func TestMapStatus(t *testing.T) {
	cases := []struct {
		txStatus, fraud string
		want            domain.PaymentStatus
	}{
		{"capture", "accept", domain.PaymentStatusSettlement},
		{"capture", "challenge", domain.PaymentStatusPending},
		{"capture", "deny", domain.PaymentStatusPending},
		{"capture", "", domain.PaymentStatusPending},
		{"settlement", "", domain.PaymentStatusSettlement},
		{"pending", "", domain.PaymentStatusPending},
		{"deny", "", domain.PaymentStatusDeny},
		{"cancel", "", domain.PaymentStatusCancel},
		{"expire", "", domain.PaymentStatusExpire},
		{"failure", "", domain.PaymentStatusFailure},
		{"refund", "", domain.PaymentStatusPending},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MapStatus(c.txStatus, c.fraud), "%s/%s", c.txStatus, c.fraud)
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transactions", r.URL.Path)
			user, _, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "SB-Mid-server-test", user)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token":"snap-token-123","redirect_url":"https://app.sandbox.midtrans.com/snap/v3/redirection/snap-token-123"}`))
		}))
		defer srv.Close()

		c := testClient(srv.URL, srv.URL)
		session, err := c.CreateTransaction(context.Background(), &ChargeRequest{
			OrderID:      "RENTAL-1-abc",
			GrossAmount:  decimal.NewFromInt(150000),
			ItemName:     "Vehicle Rental - 3 days",
			ItemPrice:    decimal.NewFromInt(50000),
			ItemQuantity: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, "snap-token-123", session.Token)
		assert.NotEmpty(t, session.RedirectURL)
	})

	t.Run("GatewayError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error_messages":["unauthorized"]}`))
		}))
		defer srv.Close()

		c := testClient(srv.URL, srv.URL)
		_, err := c.CreateTransaction(context.Background(), &ChargeRequest{OrderID: "RENTAL-2-def", GrossAmount: decimal.NewFromInt(1000)})
		assert.True(t, errors.Is(err, domain.ErrGateway))
	})
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ORDER-9/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"ORDER-9","transaction_status":"settlement","status_code":"200","gross_amount":"50000.00"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	n, err := c.GetStatus(context.Background(), "ORDER-9")
	require.NoError(t, err)
	assert.Equal(t, "settlement", n.TransactionStatus)
	assert.Equal(t, "ORDER-9", n.OrderID)
}

func TestCancel(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/ORDER-9/cancel", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"status_code":"200"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	require.NoError(t, c.Cancel(context.Background(), "ORDER-9"))
	assert.True(t, called)
}
