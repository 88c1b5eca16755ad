// Package domain defines the normalized entities served by paydesk.
// All entities are read-only projections of upstream finance records; paydesk
// never owns their lifecycle.
package domain

import (
	"time"
)

// Kind identifies which searchable entity a result belongs to.
type Kind string

const (
	KindTransfer    Kind = "transfer"
	KindPayout      Kind = "payout"
	KindTransaction Kind = "transaction"
)

// Valid reports whether the kind is one of the searchable entities.
func (k Kind) Valid() bool {
	switch k {
	case KindTransfer, KindPayout, KindTransaction:
		return true
	}
	return false
}

// Party holds the bank-account details of a sender or recipient. Fields are
// optional depending on direction (incoming transfers carry a sender, payouts
// carry a recipient).
type Party struct {
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	BankCode      string `json:"bank_code,omitempty"`
}

// Business is the merchant record embedded in a search result. It is
// reference-only; paydesk never mutates it.
type Business struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TradeName string `json:"trade_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	KYCStatus string `json:"kyc_status,omitempty"`
}

// WebhookEvent describes the latest webhook delivery attempt for a result.
// Request may be a raw JSON payload or a double-encoded JSON string; the
// presenter is responsible for decoding it tolerantly.
type WebhookEvent struct {
	Event        string `json:"event"`
	Trx          string `json:"trx"`
	ResponseCode int    `json:"response_code"`
	Response     string `json:"response"`
	Round        int    `json:"round"`
	Request      string `json:"request"`
}

// Result is the normalized shape shared by transfer, payout and transaction
// search results. Money fields are all in the same currency unit. SystemFee
// carries the upstream systemFee for transactions/payouts and stampDuty for
// transfers; the distinction only matters for labelling.
type Result struct {
	Kind      Kind   `json:"kind"`
	ID        string `json:"id"`
	Reference string `json:"reference"`
	SessionID string `json:"session_id,omitempty"`

	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	SystemFee float64 `json:"system_fee"`
	Currency  string  `json:"currency"`

	Status    Status `json:"status"`
	RawStatus string `json:"raw_status"`

	Sender    *Party `json:"sender,omitempty"`
	Recipient *Party `json:"recipient,omitempty"`

	PaymentMode string `json:"payment_mode,omitempty"`
	Domain      string `json:"domain,omitempty"` // live or test
	Narration   string `json:"narration,omitempty"`

	BusinessID      string        `json:"business_id,omitempty"`
	Business        *Business     `json:"business,omitempty"`
	WebhookEvent    *WebhookEvent `json:"webhook_event,omitempty"`
	GatewayResponse string        `json:"gateway_response,omitempty"` // opaque JSON blob, possibly empty

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletEntry is a single row of the wallet ledger list.
type WalletEntry struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Direction string    `json:"direction"` // credit or debit
	Amount    float64   `json:"amount"`
	Fee       float64   `json:"fee"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	Status    Status    `json:"status"`
	RawStatus string    `json:"raw_status"`
	Narration string    `json:"narration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination echoes the upstream list pagination envelope. The current page is
// implied by the request parameter and not always echoed by upstream.
type Pagination struct {
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Limit      int `json:"limit"`
}

// ParseTime parses the timestamp formats the upstream API is known to emit.
// It returns the zero time when no format matches; timestamps are display-only
// so a missing value is not an error.
func ParseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
