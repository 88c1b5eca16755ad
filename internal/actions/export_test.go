package actions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeyinka/paydesk/internal/domain"
)

func payoutResult() *domain.Result {
	return &domain.Result{
		Kind:      domain.KindPayout,
		ID:        "po_123",
		Reference: "PAY-REF-001",
		Amount:    10000,
		Fee:       100,
		SystemFee: 50,
		Currency:  "NGN",
		Status:    domain.StatusSuccessful,
		Domain:    "live",
		Recipient: &domain.Party{
			AccountName:   "Ada Obi",
			AccountNumber: "0123456789",
			BankName:      "First Bank",
			BankCode:      "011",
		},
		BusinessID: "biz_9",
		CreatedAt:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestExportDocument_PayoutKeySet(t *testing.T) {
	doc := ExportDocument(payoutResult())

	// The payout export contract is a fixed key set.
	want := []string{
		"transaction_id", "reference", "amount", "currency", "status",
		"account_name", "account_number", "bank_name", "bank_code",
		"fee", "sys_fee", "created_at", "domain",
	}
	require.Len(t, doc, len(want))
	for _, key := range want {
		assert.Contains(t, doc, key)
	}

	assert.Equal(t, "po_123", doc["transaction_id"])
	assert.Equal(t, "successful", doc["status"])
	assert.Equal(t, "2024-03-15T10:30:00Z", doc["created_at"])
	assert.Equal(t, "Ada Obi", doc["account_name"])
}

func TestExportDocument_PayoutWithoutRecipient(t *testing.T) {
	r := payoutResult()
	r.Recipient = nil

	doc := ExportDocument(r)
	assert.Equal(t, "", doc["account_name"])
	assert.Equal(t, "", doc["bank_code"])
}

func TestExportDocument_TransferUsesStampDuty(t *testing.T) {
	r := &domain.Result{
		Kind:      domain.KindTransfer,
		ID:        "tr_1",
		SystemFee: 25,
		Sender:    &domain.Party{AccountName: "Sender Co"},
	}

	doc := ExportDocument(r)
	assert.Equal(t, 25.0, doc["stamp_duty"])
	assert.NotContains(t, doc, "sys_fee")
	assert.Equal(t, "Sender Co", doc["account_name"])
}

func TestExportDocument_ZeroTimeExportsEmpty(t *testing.T) {
	r := payoutResult()
	r.CreatedAt = time.Time{}
	assert.Equal(t, "", ExportDocument(r)["created_at"])
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "payout-po_123.json", ExportFilename(payoutResult()))
	assert.Equal(t, "transfer-t1.json", ExportFilename(&domain.Result{Kind: domain.KindTransfer, ID: "t1"}))
}

func TestMarshalExport(t *testing.T) {
	data, err := MarshalExport(payoutResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "PAY-REF-001", doc["reference"])

	// Indented output.
	assert.Contains(t, string(data), "\n  ")
}
