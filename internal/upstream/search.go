package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/adeyinka/paydesk/internal/domain"
)

// searchPaths maps each searchable kind to its upstream endpoint. The payout
// path breaks the kebab-case convention upstream; that is the backend's
// contract, not a typo.
var searchPaths = map[domain.Kind]string{
	domain.KindTransfer:    "/finance/search-transfer",
	domain.KindPayout:      "/finance/searchPayouts",
	domain.KindTransaction: "/finance/search-transactions",
}

// Search queries the upstream search endpoint for the given kind and returns
// all matches, normalized. An empty slice with a nil error means the backend
// answered well-formed with zero matches; callers decide how to surface that.
func (c *Client) Search(ctx context.Context, kind domain.Kind, query string) ([]domain.Result, error) {
	path, ok := searchPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown search kind %q", kind)
	}

	params := url.Values{}
	params.Set("search", query)

	env, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	// status=false from a 2xx response means "nothing matched", not an error.
	if !env.ok() || len(env.Data) == 0 {
		return nil, nil
	}

	switch kind {
	case domain.KindTransfer:
		var records []transferRecord
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode transfer search response: %w", err)
		}
		results := make([]domain.Result, 0, len(records))
		for i := range records {
			results = append(results, records[i].normalize(c.log))
		}
		return results, nil

	case domain.KindPayout:
		var records []payoutRecord
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode payout search response: %w", err)
		}
		results := make([]domain.Result, 0, len(records))
		for i := range records {
			results = append(results, records[i].normalize(c.log))
		}
		return results, nil

	default:
		var records []transactionRecord
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode transaction search response: %w", err)
		}
		results := make([]domain.Result, 0, len(records))
		for i := range records {
			results = append(results, records[i].normalize(c.log))
		}
		return results, nil
	}
}
