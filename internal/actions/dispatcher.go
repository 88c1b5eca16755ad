package actions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adeyinka/paydesk/internal/audit"
	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/upstream"
)

// WebhookResender is the slice of the upstream client the dispatcher needs.
type WebhookResender interface {
	ResendWebhook(ctx context.Context, kind domain.Kind, businessID, transactionID string) (*upstream.ResendOutcome, error)
}

// Recorder appends records to the action audit log.
type Recorder interface {
	Append(ctx context.Context, rec audit.Record) error
}

// Dispatcher fires the secondary one-shot operations tied to a loaded result.
// Each operation validates its inputs locally before touching the network and
// is serialized against itself: a resend cannot start while the previous one
// is still outstanding. Failures never clear the displayed result.
type Dispatcher struct {
	resender  WebhookResender
	recorder  Recorder // optional
	exporter  FileExporter
	printer   PrintSink
	clipboard Clipboard
	share     ShareTarget
	company   CompanyInfo
	timeout   time.Duration
	log       zerolog.Logger

	mu   sync.Mutex
	busy map[string]bool
}

// Config wires the dispatcher's collaborators. Recorder may be nil when audit
// logging is disabled; capability fields fall back to the headless defaults.
type Config struct {
	Resender  WebhookResender
	Recorder  Recorder
	Exporter  FileExporter
	Printer   PrintSink
	Clipboard Clipboard
	Share     ShareTarget
	Company   CompanyInfo
	Timeout   time.Duration
}

// NewDispatcher creates an action dispatcher.
func NewDispatcher(cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = NoClipboard{}
	}
	if cfg.Share == nil {
		cfg.Share = NoShare{}
	}

	return &Dispatcher{
		resender:  cfg.Resender,
		recorder:  cfg.Recorder,
		exporter:  cfg.Exporter,
		printer:   cfg.Printer,
		clipboard: cfg.Clipboard,
		share:     cfg.Share,
		company:   cfg.Company,
		timeout:   cfg.Timeout,
		log:       log.With().Str("component", "actions").Logger(),
	}
}

// tryAcquire marks an action busy, failing when it is already outstanding.
func (d *Dispatcher) tryAcquire(action string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.busy == nil {
		d.busy = make(map[string]bool)
	}
	if d.busy[action] {
		return &domain.ActionError{Action: action, Message: "a previous request is still in progress"}
	}
	d.busy[action] = true
	return nil
}

func (d *Dispatcher) release(action string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy[action] = false
}

// ResendWebhook asks the backend to redeliver the webhook for the loaded
// result. Both the business ID and the result ID must be present; anything
// missing is rejected locally with zero network calls.
func (d *Dispatcher) ResendWebhook(ctx context.Context, r *domain.Result) (string, error) {
	if r == nil {
		return "", domain.ErrNoResult
	}
	if r.BusinessID == "" || r.ID == "" {
		return "", &domain.ActionError{
			Action:  "resend_webhook",
			Message: "result is missing the business or transaction identifier",
		}
	}

	if err := d.tryAcquire("resend_webhook"); err != nil {
		return "", err
	}
	defer d.release("resend_webhook")

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	outcome, err := d.resender.ResendWebhook(ctx, r.Kind, r.BusinessID, r.ID)
	if err != nil {
		d.record(r, "resend_webhook", "failure", err.Error(), nil)
		return "", &domain.ActionError{Action: "resend_webhook", Err: err}
	}

	verdict := "success"
	if !outcome.Success {
		verdict = "failure"
	}
	d.record(r, "resend_webhook", verdict, outcome.Message, map[string]any{
		"round": webhookRound(r),
	})

	if !outcome.Success {
		return "", &domain.ActionError{Action: "resend_webhook", Message: outcome.Message}
	}

	d.log.Info().Str("id", r.ID).Str("business_id", r.BusinessID).Msg("Webhook resent")
	return outcome.Message, nil
}

// ExportJSON serializes the curated field subset of the result to a file named
// after its id. Purely local; no network involved.
func (d *Dispatcher) ExportJSON(ctx context.Context, r *domain.Result) (string, error) {
	if r == nil {
		return "", domain.ErrNoResult
	}
	if d.exporter == nil {
		return "", &domain.ActionError{Action: "export_json", Message: "no export destination configured"}
	}

	data, err := MarshalExport(r)
	if err != nil {
		return "", &domain.ActionError{Action: "export_json", Err: err}
	}

	path, err := d.exporter.WriteFile(ExportFilename(r), data)
	if err != nil {
		d.record(r, "export_json", "failure", err.Error(), nil)
		return "", &domain.ActionError{Action: "export_json", Err: err}
	}

	d.record(r, "export_json", "success", "", map[string]any{"path": path, "bytes": len(data)})
	return path, nil
}

// PrintProofOfPayment renders the proof-of-payment document for a payout and
// hands it to the print sink.
func (d *Dispatcher) PrintProofOfPayment(ctx context.Context, r *domain.Result) error {
	if r == nil {
		return domain.ErrNoResult
	}
	if d.printer == nil {
		return &domain.ActionError{Action: "print_proof", Message: "no print capability configured"}
	}

	html, err := BuildProofOfPayment(r, d.company)
	if err != nil {
		return &domain.ActionError{Action: "print_proof", Err: err}
	}

	name := fmt.Sprintf("proof-of-payment-%s.html", r.ID)
	if err := d.printer.Print(name, html); err != nil {
		d.record(r, "print_proof", "failure", err.Error(), nil)
		return &domain.ActionError{Action: "print_proof", Err: err}
	}

	d.record(r, "print_proof", "success", "", nil)
	return nil
}

// CopyToClipboard copies text, surfacing platform failures as ActionErrors so
// the UI can toast them instead of crashing.
func (d *Dispatcher) CopyToClipboard(text, label string) error {
	if err := d.clipboard.Copy(text); err != nil {
		d.log.Warn().Err(err).Str("label", label).Msg("Clipboard copy failed")
		return &domain.ActionError{Action: "copy", Message: fmt.Sprintf("could not copy %s", label), Err: err}
	}
	return nil
}

// ShareResult shares a title/text/url triple through the native share target
// when one exists, otherwise falls back to copying the page URL.
func (d *Dispatcher) ShareResult(r *domain.Result, pageURL string) error {
	if r == nil {
		return domain.ErrNoResult
	}

	title := fmt.Sprintf("%s %s", r.Kind, r.Reference)
	text := fmt.Sprintf("%s %s (%s)", r.Kind, r.Reference, r.Status)

	if d.share.CanShare() {
		if err := d.share.Share(title, text, pageURL); err != nil {
			return &domain.ActionError{Action: "share", Err: err}
		}
		return nil
	}

	return d.CopyToClipboard(pageURL, "link")
}

// record appends to the audit log, tolerating a nil recorder and logging
// append failures without surfacing them; auditing must never break actions.
func (d *Dispatcher) record(r *domain.Result, action, outcome, message string, detail map[string]any) {
	if d.recorder == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.recorder.Append(ctx, audit.Record{
		Action:     action,
		Kind:       string(r.Kind),
		ResultID:   r.ID,
		BusinessID: r.BusinessID,
		Outcome:    outcome,
		Message:    message,
		Detail:     detail,
	})
	if err != nil {
		d.log.Error().Err(err).Str("action", action).Msg("Failed to append audit record")
	}
}

func webhookRound(r *domain.Result) int {
	if r.WebhookEvent == nil {
		return 0
	}
	return r.WebhookEvent.Round
}
