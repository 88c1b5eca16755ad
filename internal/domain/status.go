package domain

import "strings"

// Status is the canonical lifecycle status shared by transfers, payouts,
// transactions and wallet entries. The upstream API uses a slightly different
// vocabulary per entity (`success` vs `successful` vs `completed`); everything
// is normalized to this enum at the ingestion boundary.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusReversed   Status = "reversed"
)

// statusAliases maps every raw status string observed in upstream responses to
// its canonical value. Keys are compared lowercased and trimmed.
var statusAliases = map[string]Status{
	"pending":     StatusPending,
	"initiated":   StatusPending,
	"queued":      StatusPending,
	"processing":  StatusProcessing,
	"in_progress": StatusProcessing,
	"ongoing":     StatusProcessing,
	"success":     StatusSuccessful,
	"successful":  StatusSuccessful,
	"completed":   StatusSuccessful,
	"complete":    StatusSuccessful,
	"paid":        StatusSuccessful,
	"failed":      StatusFailed,
	"failure":     StatusFailed,
	"declined":    StatusFailed,
	"abandoned":   StatusFailed,
	"reversed":    StatusReversed,
	"refunded":    StatusReversed,
	"chargeback":  StatusReversed,
}

// NormalizeStatus maps a raw upstream status string to the canonical enum.
// The second return value reports whether the raw value was recognized;
// unrecognized values fall back to pending so callers can log them loudly
// instead of silently masking an upstream contract change.
func NormalizeStatus(raw string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := statusAliases[key]; ok {
		return status, true
	}
	return StatusPending, false
}

// IsTerminal reports whether the status represents a finished lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusFailed || s == StatusReversed
}

// String returns the canonical status string.
func (s Status) String() string {
	return string(s)
}
