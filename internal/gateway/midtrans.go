// Package gateway talks to the Midtrans payment gateway: Snap checkout
// sessions, transaction status, cancellation and webhook verification.
package gateway

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type Client struct {
	httpClient  *http.Client
	serverKey   string
	snapBaseURL string
	coreBaseURL string
	finishURL   string
}

func NewClient(cfg config.MidtransConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		serverKey:   cfg.ServerKey,
		snapBaseURL: cfg.SnapBaseURL,
		coreBaseURL: cfg.CoreBaseURL,
		finishURL:   cfg.FinishURL,
	}
}

// ChargeRequest describes one checkout session for a rental.
type ChargeRequest struct {
	OrderID       string
	GrossAmount   decimal.Decimal
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ItemID        string
	ItemName      string
	ItemPrice     decimal.Decimal
	ItemQuantity  int32
}

// Session is the gateway-issued checkout handle the frontend redirects to.
type Session struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Notification is the signed callback payload, also returned by the status
// endpoint.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	SignatureKey      string `json:"signature_key"`
	TransactionTime   string `json:"transaction_time"`
	SettlementTime    string `json:"settlement_time,omitempty"`
}

// CreateTransaction opens a Snap checkout session. The bounded client
// timeout applies; a failure here must abort the caller's allocation.
func (c *Client) CreateTransaction(ctx context.Context, req *ChargeRequest) (*Session, error) {
	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     req.OrderID,
			"gross_amount": req.GrossAmount.IntPart(),
		},
		"customer_details": map[string]interface{}{
			"first_name": req.CustomerName,
			"email":      req.CustomerEmail,
			"phone":      req.CustomerPhone,
		},
		"item_details": []map[string]interface{}{{
			"id":       req.ItemID,
			"price":    req.ItemPrice.IntPart(),
			"quantity": req.ItemQuantity,
			"name":     req.ItemName,
			"category": "Vehicle Rental",
		}},
		"credit_card": map[string]interface{}{"secure": true},
	}
	if c.finishURL != "" {
		payload["callbacks"] = map[string]interface{}{"finish": c.finishURL}
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, c.snapBaseURL+"/transactions", payload, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, fmt.Errorf("empty snap token: %w", domain.ErrGateway)
	}
	return &session, nil
}

// GetStatus polls the current transaction status for an order.
func (c *Client) GetStatus(ctx context.Context, orderID string) (*Notification, error) {
	var status Notification
	url := fmt.Sprintf("%s/%s/status", c.coreBaseURL, orderID)
	if err := c.do(ctx, http.MethodGet, url, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Cancel voids the gateway-side transaction for an order.
func (c *Client) Cancel(ctx context.Context, orderID string) error {
	url := fmt.Sprintf("%s/%s/cancel", c.coreBaseURL, orderID)
	return c.do(ctx, http.MethodPost, url, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("midtrans request failed: %v: %w", err, domain.ErrGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("midtrans returned %d: %s: %w", resp.StatusCode, data, domain.ErrGateway)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode midtrans response: %v: %w", err, domain.ErrGateway)
		}
	}
	return nil
}

// Signature computes the expected webhook signature:
// sha512(order_id + status_code + gross_amount + server key), hex encoded.
func (c *Client) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + c.serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks the payload's signature against the recomputed one.
func (c *Client) VerifySignature(n *Notification) bool {
	expected := c.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// MapStatus translates the gateway's transaction/fraud status pair into one
// internal payment status. The mapping is total: anything unrecognised is
// treated as still pending.
func MapStatus(transactionStatus, fraudStatus string) domain.PaymentStatus {
	switch transactionStatus {
	case "capture":
		// A capture only counts as money in the bank once fraud detection has
		// accepted it. Challenged or denied captures stay pending until the
		// gateway sends a follow-up notification.
		if fraudStatus == "accept" {
			return domain.PaymentStatusSettlement
		}
		return domain.PaymentStatusPending
	case "settlement":
		return domain.PaymentStatusSettlement
	case "cancel":
		return domain.PaymentStatusCancel
	case "deny":
		return domain.PaymentStatusDeny
	case "expire":
		return domain.PaymentStatusExpire
	case "failure":
		return domain.PaymentStatusFailure
	default:
		return domain.PaymentStatusPending
	}
}
