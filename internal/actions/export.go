package actions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adeyinka/paydesk/internal/domain"
)

// ExportDocument builds the curated export payload for a result. Only the
// explicit field subset below is serialized, never the full raw object, so
// internal fields cannot leak into downloaded files.
func ExportDocument(r *domain.Result) map[string]any {
	switch r.Kind {
	case domain.KindPayout:
		doc := map[string]any{
			"transaction_id": r.ID,
			"reference":      r.Reference,
			"amount":         r.Amount,
			"currency":       r.Currency,
			"status":         r.Status.String(),
			"fee":            r.Fee,
			"sys_fee":        r.SystemFee,
			"created_at":     formatExportTime(r.CreatedAt),
			"domain":         r.Domain,
		}
		addParty(doc, r.Recipient)
		return doc

	case domain.KindTransfer:
		doc := map[string]any{
			"id":         r.ID,
			"reference":  r.Reference,
			"session_id": r.SessionID,
			"amount":     r.Amount,
			"currency":   r.Currency,
			"status":     r.Status.String(),
			"fee":        r.Fee,
			"stamp_duty": r.SystemFee,
			"created_at": formatExportTime(r.CreatedAt),
		}
		addParty(doc, r.Sender)
		return doc

	default:
		return map[string]any{
			"id":           r.ID,
			"reference":    r.Reference,
			"amount":       r.Amount,
			"currency":     r.Currency,
			"status":       r.Status.String(),
			"fee":          r.Fee,
			"sys_fee":      r.SystemFee,
			"payment_mode": r.PaymentMode,
			"domain":       r.Domain,
			"created_at":   formatExportTime(r.CreatedAt),
		}
	}
}

// addParty flattens the account block into the export document. Absent
// parties export as empty strings so the key set stays fixed.
func addParty(doc map[string]any, p *domain.Party) {
	var party domain.Party
	if p != nil {
		party = *p
	}
	doc["account_name"] = party.AccountName
	doc["account_number"] = party.AccountNumber
	doc["bank_name"] = party.BankName
	doc["bank_code"] = party.BankCode
}

// ExportFilename names the downloaded file after the entity and its id.
func ExportFilename(r *domain.Result) string {
	return fmt.Sprintf("%s-%s.json", r.Kind, r.ID)
}

// MarshalExport serializes the curated document with indentation.
func MarshalExport(r *domain.Result) ([]byte, error) {
	data, err := json.MarshalIndent(ExportDocument(r), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export document: %w", err)
	}
	return data, nil
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
