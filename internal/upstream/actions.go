package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/adeyinka/paydesk/internal/domain"
)

// ResendOutcome carries the upstream verdict for a webhook resend.
type ResendOutcome struct {
	Success bool
	Message string
}

// ResendWebhook asks the backend to redeliver the webhook for a transaction or
// payout. Both endpoints are keyed by business ID and transaction ID and only
// exist for the live domain.
func (c *Client) ResendWebhook(ctx context.Context, kind domain.Kind, businessID, transactionID string) (*ResendOutcome, error) {
	var prefix string
	switch kind {
	case domain.KindTransaction, domain.KindTransfer:
		prefix = "/resend_transaction_webhook"
	case domain.KindPayout:
		prefix = "/resend_payout_webhook"
	default:
		return nil, fmt.Errorf("unknown webhook kind %q", kind)
	}

	path := fmt.Sprintf("%s/%s/live/%s", prefix, url.PathEscape(businessID), url.PathEscape(transactionID))

	env, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	return &ResendOutcome{
		Success: env.ok(),
		Message: env.Message,
	}, nil
}

// ExportWalletAll requests a bulk export of wallet transactions for the given
// date window. The backend delivers the export by email; the response only
// acknowledges the request.
func (c *Client) ExportWalletAll(ctx context.Context, startDate, endDate string) (string, error) {
	body := map[string]string{
		"start_date": startDate,
		"end_date":   endDate,
	}

	env, err := c.post(ctx, "/export/export-wallet-all", body)
	if err != nil {
		return "", err
	}

	if !env.ok() {
		return "", &domain.TransportError{Message: env.Message}
	}

	return env.Message, nil
}
