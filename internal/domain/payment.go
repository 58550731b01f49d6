package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSettlement PaymentStatus = "settlement"
	PaymentStatusCapture    PaymentStatus = "capture"
	PaymentStatusDeny       PaymentStatus = "deny"
	PaymentStatusCancel     PaymentStatus = "cancel"
	PaymentStatusExpire     PaymentStatus = "expire"
	PaymentStatusFailure    PaymentStatus = "failure"
)

// IsPaid reports whether the status represents money in hand. Settlement and
// capture are the only two.
func (s PaymentStatus) IsPaid() bool {
	return s == PaymentStatusSettlement || s == PaymentStatusCapture
}

func (s PaymentStatus) IsFailed() bool {
	switch s {
	case PaymentStatusDeny, PaymentStatusCancel, PaymentStatusExpire, PaymentStatusFailure:
		return true
	}
	return false
}

type Payment struct {
	ID            int32           `json:"id"`
	RentalID      int32           `json:"rental_id"`
	UserID        int32           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"payment_method,omitempty"`
	Status        PaymentStatus   `json:"payment_status"`
	OrderID       string          `json:"order_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	SnapToken     string          `json:"snap_token,omitempty"`
	RedirectURL   string          `json:"redirect_url,omitempty"`
	RawResponse   json.RawMessage `json:"-"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CanBeRetried reports whether a fresh checkout session may be issued for
// this payment. Paid payments are final.
func (p *Payment) CanBeRetried() bool {
	return p.Status == PaymentStatusPending || p.Status.IsFailed()
}
