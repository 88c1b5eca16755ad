package upstream

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/adeyinka/paydesk/internal/domain"
)

// transferRecord mirrors the raw TransferDetails rows returned by
// /finance/search-transfer. Incoming transfers carry sender-side details.
type transferRecord struct {
	ID                string          `json:"id"`
	Reference         string          `json:"reference"`
	SessionID         string          `json:"session_id"`
	Amount            float64         `json:"amount"`
	Fee               float64         `json:"fee"`
	StampDuty         float64         `json:"stamp_duty"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	SourceAccountName string          `json:"source_account_name"`
	SourceAccountNo   string          `json:"source_account_number"`
	SourceBankName    string          `json:"source_bank_name"`
	SourceBankCode    string          `json:"source_bank_code"`
	Narration         string          `json:"narration"`
	BusinessID        string          `json:"business_id"`
	Business          *businessRecord `json:"business"`
	WebhookEvent      *webhookRecord  `json:"webhook_event"`
	GatewayResponse   json.RawMessage `json:"gateway_response"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// payoutRecord mirrors the raw PayoutDetails rows returned by
// /finance/searchPayouts. Payouts carry recipient-side details.
type payoutRecord struct {
	ID              string          `json:"id"`
	TransactionID   string          `json:"transaction_id"`
	Reference       string          `json:"reference"`
	SessionID       string          `json:"session_id"`
	Amount          float64         `json:"amount"`
	Fee             float64         `json:"fee"`
	SysFee          float64         `json:"sys_fee"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	AccountName     string          `json:"account_name"`
	AccountNumber   string          `json:"account_number"`
	BankName        string          `json:"bank_name"`
	BankCode        string          `json:"bank_code"`
	PaymentMode     string          `json:"payment_mode"`
	Domain          string          `json:"domain"`
	Narration       string          `json:"narration"`
	BusinessID      string          `json:"business_id"`
	Business        *businessRecord `json:"business"`
	WebhookEvent    *webhookRecord  `json:"webhook_event"`
	GatewayResponse json.RawMessage `json:"gateway_response"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// transactionRecord mirrors the raw TransactionDetails rows returned by
// /finance/search-transactions.
type transactionRecord struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	SessionID       string          `json:"session_id"`
	Amount          float64         `json:"amount"`
	Fee             float64         `json:"fee"`
	SysFee          float64         `json:"sys_fee"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	CustomerName    string          `json:"customer_name"`
	CustomerAccount string          `json:"customer_account"`
	CustomerBank    string          `json:"customer_bank"`
	PaymentMode     string          `json:"payment_mode"`
	Domain          string          `json:"domain"`
	Narration       string          `json:"narration"`
	BusinessID      string          `json:"business_id"`
	Business        *businessRecord `json:"business"`
	WebhookEvent    *webhookRecord  `json:"webhook_event"`
	GatewayResponse json.RawMessage `json:"gateway_response"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

type businessRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TradeName string `json:"trade_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	KYCStatus string `json:"kyc_status"`
}

type webhookRecord struct {
	Event        string          `json:"event"`
	Trx          string          `json:"trx"`
	ResponseCode int             `json:"response_code"`
	Response     string          `json:"response"`
	Round        int             `json:"round"`
	Request      json.RawMessage `json:"request"` // object or double-encoded string
}

// walletRecord mirrors rows of the wallet-transaction table payload.
type walletRecord struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference"`
	Direction string  `json:"direction"` // credit or debit
	Amount    float64 `json:"amount"`
	Fee       float64 `json:"fee"`
	Balance   float64 `json:"balance_after"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	Narration string  `json:"narration"`
	CreatedAt string  `json:"created_at"`
}

// normalizeStatus maps a raw status to the canonical enum, logging loudly when
// the value is outside the known vocabulary so upstream contract drift is
// visible instead of silently rendering as pending.
func normalizeStatus(raw string, kind domain.Kind, id string, log zerolog.Logger) domain.Status {
	status, known := domain.NormalizeStatus(raw)
	if !known {
		log.Warn().
			Str("kind", string(kind)).
			Str("id", id).
			Str("raw_status", raw).
			Msg("Unrecognized upstream status, defaulting to pending")
	}
	return status
}

func (r *transferRecord) normalize(log zerolog.Logger) domain.Result {
	return domain.Result{
		Kind:      domain.KindTransfer,
		ID:        r.ID,
		Reference: r.Reference,
		SessionID: r.SessionID,
		Amount:    r.Amount,
		Fee:       r.Fee,
		SystemFee: r.StampDuty,
		Currency:  r.Currency,
		Status:    normalizeStatus(r.Status, domain.KindTransfer, r.ID, log),
		RawStatus: r.Status,
		Sender: partyOrNil(&domain.Party{
			AccountName:   r.SourceAccountName,
			AccountNumber: r.SourceAccountNo,
			BankName:      r.SourceBankName,
			BankCode:      r.SourceBankCode,
		}),
		Narration:       r.Narration,
		BusinessID:      businessID(r.BusinessID, r.Business),
		Business:        r.Business.normalize(),
		WebhookEvent:    r.WebhookEvent.normalize(),
		GatewayResponse: rawString(r.GatewayResponse),
		CreatedAt:       domain.ParseTime(r.CreatedAt),
		UpdatedAt:       domain.ParseTime(r.UpdatedAt),
	}
}

func (r *payoutRecord) normalize(log zerolog.Logger) domain.Result {
	id := r.TransactionID
	if id == "" {
		id = r.ID
	}
	return domain.Result{
		Kind:      domain.KindPayout,
		ID:        id,
		Reference: r.Reference,
		SessionID: r.SessionID,
		Amount:    r.Amount,
		Fee:       r.Fee,
		SystemFee: r.SysFee,
		Currency:  r.Currency,
		Status:    normalizeStatus(r.Status, domain.KindPayout, id, log),
		RawStatus: r.Status,
		Recipient: partyOrNil(&domain.Party{
			AccountName:   r.AccountName,
			AccountNumber: r.AccountNumber,
			BankName:      r.BankName,
			BankCode:      r.BankCode,
		}),
		PaymentMode:     r.PaymentMode,
		Domain:          r.Domain,
		Narration:       r.Narration,
		BusinessID:      businessID(r.BusinessID, r.Business),
		Business:        r.Business.normalize(),
		WebhookEvent:    r.WebhookEvent.normalize(),
		GatewayResponse: rawString(r.GatewayResponse),
		CreatedAt:       domain.ParseTime(r.CreatedAt),
		UpdatedAt:       domain.ParseTime(r.UpdatedAt),
	}
}

func (r *transactionRecord) normalize(log zerolog.Logger) domain.Result {
	return domain.Result{
		Kind:      domain.KindTransaction,
		ID:        r.ID,
		Reference: r.Reference,
		SessionID: r.SessionID,
		Amount:    r.Amount,
		Fee:       r.Fee,
		SystemFee: r.SysFee,
		Currency:  r.Currency,
		Status:    normalizeStatus(r.Status, domain.KindTransaction, r.ID, log),
		RawStatus: r.Status,
		Sender: partyOrNil(&domain.Party{
			AccountName:   r.CustomerName,
			AccountNumber: r.CustomerAccount,
			BankName:      r.CustomerBank,
		}),
		PaymentMode:     r.PaymentMode,
		Domain:          r.Domain,
		Narration:       r.Narration,
		BusinessID:      businessID(r.BusinessID, r.Business),
		Business:        r.Business.normalize(),
		WebhookEvent:    r.WebhookEvent.normalize(),
		GatewayResponse: rawString(r.GatewayResponse),
		CreatedAt:       domain.ParseTime(r.CreatedAt),
		UpdatedAt:       domain.ParseTime(r.UpdatedAt),
	}
}

func (r *walletRecord) normalize(log zerolog.Logger) domain.WalletEntry {
	status, known := domain.NormalizeStatus(r.Status)
	if !known {
		log.Warn().
			Str("id", r.ID).
			Str("raw_status", r.Status).
			Msg("Unrecognized wallet entry status, defaulting to pending")
	}
	return domain.WalletEntry{
		ID:        r.ID,
		Reference: r.Reference,
		Direction: r.Direction,
		Amount:    r.Amount,
		Fee:       r.Fee,
		Balance:   r.Balance,
		Currency:  r.Currency,
		Status:    status,
		RawStatus: r.Status,
		Narration: r.Narration,
		CreatedAt: domain.ParseTime(r.CreatedAt),
	}
}

func (b *businessRecord) normalize() *domain.Business {
	if b == nil {
		return nil
	}
	return &domain.Business{
		ID:        b.ID,
		Name:      b.Name,
		TradeName: b.TradeName,
		Email:     b.Email,
		Phone:     b.Phone,
		KYCStatus: b.KYCStatus,
	}
}

func (w *webhookRecord) normalize() *domain.WebhookEvent {
	if w == nil {
		return nil
	}
	return &domain.WebhookEvent{
		Event:        w.Event,
		Trx:          w.Trx,
		ResponseCode: w.ResponseCode,
		Response:     w.Response,
		Round:        w.Round,
		Request:      rawString(w.Request),
	}
}

// partyOrNil drops fully-empty party blocks so absent counterparties render as
// an explicit empty state instead of an all-blank card.
func partyOrNil(p *domain.Party) *domain.Party {
	if p.AccountName == "" && p.AccountNumber == "" && p.BankName == "" && p.BankCode == "" {
		return nil
	}
	return p
}

// businessID prefers the top-level business_id field, falling back to the id
// of the embedded business record.
func businessID(id string, b *businessRecord) string {
	if id != "" {
		return id
	}
	if b != nil {
		return b.ID
	}
	return ""
}

// rawString returns the raw JSON as a string, trimming surrounding quotes when
// upstream double-encoded the payload as a JSON string.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
