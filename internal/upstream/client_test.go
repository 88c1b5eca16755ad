package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeyinka/paydesk/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Token: "test-token"}, zerolog.Nop())
}

func TestSearch_Payout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finance/searchPayouts", r.URL.Path)
		assert.Equal(t, "PAY-REF-001", r.URL.Query().Get("search"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "success",
			"data": []map[string]any{{
				"transaction_id": "po_1",
				"reference":      "PAY-REF-001",
				"amount":         10000.0,
				"fee":            100.0,
				"sys_fee":        50.0,
				"currency":       "NGN",
				"status":         "success",
				"account_name":   "Ada Obi",
				"account_number": "0123456789",
				"bank_name":      "First Bank",
				"business_id":    "biz_1",
				"created_at":     "2024-03-15T10:30:00Z",
			}},
		})
	})

	results, err := client.Search(context.Background(), domain.KindPayout, "PAY-REF-001")
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, domain.KindPayout, r.Kind)
	assert.Equal(t, "po_1", r.ID)
	assert.Equal(t, domain.StatusSuccessful, r.Status) // "success" normalized
	assert.Equal(t, "success", r.RawStatus)
	assert.Equal(t, 50.0, r.SystemFee)
	require.NotNil(t, r.Recipient)
	assert.Equal(t, "Ada Obi", r.Recipient.AccountName)
}

func TestSearch_TransferStampDuty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finance/search-transfer", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": []map[string]any{{
				"id":         "tr_1",
				"amount":     5000.0,
				"stamp_duty": 25.0,
				"status":     "completed",
				"source_account_name": "Sender Co",
			}},
		})
	})

	results, err := client.Search(context.Background(), domain.KindTransfer, "TRX-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 25.0, results[0].SystemFee) // stamp_duty fills the system fee slot
	assert.Equal(t, domain.StatusSuccessful, results[0].Status)
	require.NotNil(t, results[0].Sender)
}

func TestSearch_NoMatchIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "No transaction found",
		})
	})

	results, err := client.Search(context.Background(), domain.KindTransaction, "nope")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyArrayIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   []any{},
		})
	})

	results, err := client.Search(context.Background(), domain.KindPayout, "nope")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ServerErrorBecomesTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "upstream database unavailable",
		})
	})

	_, err := client.Search(context.Background(), domain.KindPayout, "x")
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	assert.Equal(t, "upstream database unavailable", transportErr.Message)
}

func TestSearch_UnknownStatusDefaultsToPending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   []map[string]any{{"id": "t1", "status": "mystery"}},
		})
	})

	results, err := client.Search(context.Background(), domain.KindTransaction, "x")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusPending, results[0].Status)
	assert.Equal(t, "mystery", results[0].RawStatus)
}

func TestResendWebhook_PayoutPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resend_payout_webhook/biz_1/live/po_1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Webhook queued",
		})
	})

	outcome, err := client.ResendWebhook(context.Background(), domain.KindPayout, "biz_1", "po_1")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Webhook queued", outcome.Message)
}

func TestResendWebhook_TransferUsesTransactionPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/resend_transaction_webhook/biz_1/live/tr_1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "no webhook url"})
	})

	outcome, err := client.ResendWebhook(context.Background(), domain.KindTransfer, "biz_1", "tr_1")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "no webhook url", outcome.Message)
}

func TestWalletTransactions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finance/wallet-transaction", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"stats": map[string]float64{"total_credit": 120000, "total_debit": 45000},
				"table": []map[string]any{
					{"id": "w1", "direction": "credit", "amount": 5000.0, "status": "successful"},
					{"id": "w2", "direction": "debit", "amount": 2000.0, "status": "successful"},
				},
			},
			"pagination": map[string]any{"totalItems": 40, "totalPages": 2, "limit": 20},
		})
	})

	page, err := client.WalletTransactions(context.Background(), ListParams{Page: 2, StartDate: "2024-01-01"})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "credit", page.Entries[0].Direction)
	assert.Equal(t, "debit", page.Entries[1].Direction)
	assert.Equal(t, 120000.0, page.RawStats["total_credit"])
	require.NotNil(t, page.Pagination)
	assert.Equal(t, 40, page.Pagination.TotalItems)
}

func TestMerchantPayouts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchant/payouts/biz_1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": []map[string]any{
				{"transaction_id": "po_1", "status": "successful"},
			},
		})
	})

	page, err := client.MerchantPayouts(context.Background(), "biz_1", ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Payouts, 1)
	assert.Equal(t, "po_1", page.Payouts[0].ID)
}

func TestExportWalletAll(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/export/export-wallet-all", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-01-01", body["start_date"])
		assert.Equal(t, "2024-01-31", body["end_date"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Export will be sent to your email",
		})
	})

	message, err := client.ExportWalletAll(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "Export will be sent to your email", message)
}

func TestDoubleEncodedGatewayResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": []map[string]any{{
				"id":               "t1",
				"status":           "successful",
				"gateway_response": `{"code":"00"}`, // string-wrapped JSON
			}},
		})
	})

	results, err := client.Search(context.Background(), domain.KindTransaction, "x")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, `{"code":"00"}`, results[0].GatewayResponse)
}
