package actions

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/present"
)

// CompanyInfo is rendered in the header and footer of generated documents.
type CompanyInfo struct {
	Name    string
	Support string
}

// proofData is the template context for the proof-of-payment document.
type proofData struct {
	Company       CompanyInfo
	Reference     string
	TransactionID string
	SessionID     string
	StatusLabel   string
	StatusColor   string
	Amount        string
	Fee           string
	SystemFee     string
	SystemLabel   string
	NetAmount     string
	AccountName   string
	AccountNumber string
	BankName      string
	Narration     string
	PaidOn        string
	GeneratedOn   string
}

// proofTemplate is the proof-of-payment document. Every style is inline and
// no external asset is referenced, so the document renders identically in a
// detached print context.
var proofTemplate = template.Must(template.New("proof").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Proof of Payment - {{.Reference}}</title>
</head>
<body style="margin:0;padding:32px;font-family:Helvetica,Arial,sans-serif;color:#1a1a2e;background:#ffffff;">
<div style="max-width:640px;margin:0 auto;border:1px solid #e2e2ea;border-radius:8px;overflow:hidden;">
  <div style="background:#101828;color:#ffffff;padding:24px 32px;">
    <div style="font-size:20px;font-weight:700;">{{.Company.Name}}</div>
    <div style="font-size:13px;opacity:0.8;margin-top:4px;">Proof of Payment</div>
  </div>
  <div style="padding:24px 32px;">
    <table style="width:100%;border-collapse:collapse;font-size:14px;">
      <tr>
        <td style="padding:6px 0;color:#667085;">Reference</td>
        <td style="padding:6px 0;text-align:right;font-weight:600;">{{.Reference}}</td>
      </tr>
      <tr>
        <td style="padding:6px 0;color:#667085;">Transaction ID</td>
        <td style="padding:6px 0;text-align:right;">{{.TransactionID}}</td>
      </tr>
      {{if .SessionID}}
      <tr>
        <td style="padding:6px 0;color:#667085;">Session ID</td>
        <td style="padding:6px 0;text-align:right;">{{.SessionID}}</td>
      </tr>
      {{end}}
      <tr>
        <td style="padding:6px 0;color:#667085;">Status</td>
        <td style="padding:6px 0;text-align:right;"><span style="color:{{.StatusColor}};font-weight:600;text-transform:capitalize;">{{.StatusLabel}}</span></td>
      </tr>
      <tr>
        <td style="padding:6px 0;color:#667085;">Paid On</td>
        <td style="padding:6px 0;text-align:right;">{{.PaidOn}}</td>
      </tr>
    </table>
    <div style="border-top:1px dashed #e2e2ea;margin:16px 0;"></div>
    <table style="width:100%;border-collapse:collapse;font-size:14px;">
      <tr>
        <td style="padding:6px 0;color:#667085;">Amount</td>
        <td style="padding:6px 0;text-align:right;">{{.Amount}}</td>
      </tr>
      <tr>
        <td style="padding:6px 0;color:#667085;">Fee</td>
        <td style="padding:6px 0;text-align:right;">{{.Fee}}</td>
      </tr>
      <tr>
        <td style="padding:6px 0;color:#667085;">{{.SystemLabel}}</td>
        <td style="padding:6px 0;text-align:right;">{{.SystemFee}}</td>
      </tr>
      <tr>
        <td style="padding:10px 0;color:#101828;font-weight:700;border-top:1px solid #e2e2ea;">Net Amount</td>
        <td style="padding:10px 0;text-align:right;font-weight:700;border-top:1px solid #e2e2ea;">{{.NetAmount}}</td>
      </tr>
    </table>
    <div style="background:#f9fafb;border-radius:6px;padding:16px;margin-top:16px;">
      <div style="font-size:12px;color:#667085;text-transform:uppercase;letter-spacing:0.05em;margin-bottom:8px;">Recipient</div>
      <div style="font-size:15px;font-weight:600;">{{.AccountName}}</div>
      <div style="font-size:13px;color:#475467;margin-top:2px;">{{.AccountNumber}} &middot; {{.BankName}}</div>
      {{if .Narration}}<div style="font-size:13px;color:#475467;margin-top:8px;">{{.Narration}}</div>{{end}}
    </div>
  </div>
  <div style="padding:16px 32px;background:#f9fafb;border-top:1px solid #e2e2ea;font-size:11px;color:#98a2b3;">
    This document was generated on {{.GeneratedOn}} and serves as confirmation of a payment processed by {{.Company.Name}}.
    It is valid without a signature. For enquiries contact {{.Company.Support}}.
  </div>
</div>
</body>
</html>
`))

// statusColors maps canonical statuses to the inline colors used on printed
// documents.
var statusColors = map[domain.Status]string{
	domain.StatusPending:    "#b54708",
	domain.StatusProcessing: "#175cd3",
	domain.StatusSuccessful: "#027a48",
	domain.StatusFailed:     "#b42318",
	domain.StatusReversed:   "#6941c6",
}

// BuildProofOfPayment renders the self-contained proof-of-payment HTML
// document for a payout.
func BuildProofOfPayment(r *domain.Result, company CompanyInfo) ([]byte, error) {
	if r == nil {
		return nil, domain.ErrNoResult
	}

	var recipient domain.Party
	if r.Recipient != nil {
		recipient = *r.Recipient
	}

	paidOn := ""
	if !r.CreatedAt.IsZero() {
		paidOn = r.CreatedAt.Format("2 Jan 2006, 15:04 MST")
	}

	data := proofData{
		Company:       company,
		Reference:     r.Reference,
		TransactionID: r.ID,
		SessionID:     r.SessionID,
		StatusLabel:   r.Status.String(),
		StatusColor:   statusColors[r.Status],
		Amount:        present.FormatMoney(r.Amount, r.Currency),
		Fee:           present.FormatMoney(r.Fee, r.Currency),
		SystemFee:     present.FormatMoney(r.SystemFee, r.Currency),
		SystemLabel:   present.SystemFeeLabel(r.Kind),
		NetAmount:     present.FormatMoney(present.NetAmount(r), r.Currency),
		AccountName:   recipient.AccountName,
		AccountNumber: recipient.AccountNumber,
		BankName:      recipient.BankName,
		Narration:     r.Narration,
		PaidOn:        paidOn,
		GeneratedOn:   time.Now().Format("2 Jan 2006, 15:04 MST"),
	}

	var buf bytes.Buffer
	if err := proofTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render proof of payment: %w", err)
	}
	return buf.Bytes(), nil
}
