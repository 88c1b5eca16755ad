package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/adeyinka/paydesk/internal/domain"
)

// ListParams carries the pass-through filters accepted by the upstream list
// endpoints. Zero values are omitted from the query string.
type ListParams struct {
	Page        int
	Limit       int
	Search      string
	Status      string
	PaymentMode string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
}

func (p ListParams) values() url.Values {
	params := url.Values{}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if p.Status != "" {
		params.Set("status", p.Status)
	}
	if p.PaymentMode != "" {
		params.Set("payment_mode", p.PaymentMode)
	}
	if p.StartDate != "" {
		params.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		params.Set("end_date", p.EndDate)
	}
	return params
}

// WalletPage is one page of the wallet ledger plus the upstream stats block.
type WalletPage struct {
	Entries    []domain.WalletEntry
	RawStats   map[string]float64
	Pagination *domain.Pagination
}

// WalletTransactions fetches one page of the wallet ledger. The upstream
// payload nests the rows under data.table next to a stats block.
func (c *Client) WalletTransactions(ctx context.Context, params ListParams) (*WalletPage, error) {
	env, err := c.get(ctx, "/finance/wallet-transaction", params.values())
	if err != nil {
		return nil, err
	}

	if !env.ok() {
		return nil, &domain.TransportError{Message: env.Message}
	}

	var payload struct {
		Stats map[string]float64 `json:"stats"`
		Table []walletRecord     `json:"table"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode wallet transaction response: %w", err)
	}

	entries := make([]domain.WalletEntry, 0, len(payload.Table))
	for i := range payload.Table {
		entries = append(entries, payload.Table[i].normalize(c.log))
	}

	return &WalletPage{
		Entries:    entries,
		RawStats:   payload.Stats,
		Pagination: env.Pagination,
	}, nil
}

// PayoutPage is one page of a merchant's payouts.
type PayoutPage struct {
	Payouts    []domain.Result
	Pagination *domain.Pagination
}

// MerchantPayouts fetches one page of payouts for a single merchant.
func (c *Client) MerchantPayouts(ctx context.Context, businessID string, params ListParams) (*PayoutPage, error) {
	if businessID == "" {
		return nil, fmt.Errorf("business ID is required")
	}

	env, err := c.get(ctx, "/merchant/payouts/"+url.PathEscape(businessID), params.values())
	if err != nil {
		return nil, err
	}

	var records []payoutRecord
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode merchant payout response: %w", err)
		}
	}

	payouts := make([]domain.Result, 0, len(records))
	for i := range records {
		payouts = append(payouts, records[i].normalize(c.log))
	}

	return &PayoutPage{
		Payouts:    payouts,
		Pagination: env.Pagination,
	}, nil
}
