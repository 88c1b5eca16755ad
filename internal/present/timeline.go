package present

import "github.com/adeyinka/paydesk/internal/domain"

// StepStatus is the rendered state of one lifecycle step.
type StepStatus string

const (
	StepDone    StepStatus = "done"
	StepActive  StepStatus = "active"
	StepFailed  StepStatus = "failed"
	StepPending StepStatus = "pending"
)

// TimelineStep is one entry of the synthesized lifecycle narrative.
type TimelineStep struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
}

// Timeline synthesizes the fixed lifecycle sequence for a result. The step
// states are derived from the result's own status and the webhook response
// code; this is a presentation narrative, not an authoritative audit trail.
func Timeline(r *domain.Result) []TimelineStep {
	gateway := StepPending
	completed := StepPending

	switch r.Status {
	case domain.StatusProcessing:
		gateway = StepActive
	case domain.StatusSuccessful, domain.StatusReversed:
		gateway = StepDone
		completed = StepDone
	case domain.StatusFailed:
		gateway = StepFailed
		completed = StepFailed
	}

	webhook := StepPending
	if r.WebhookEvent != nil {
		if r.WebhookEvent.ResponseCode >= 200 && r.WebhookEvent.ResponseCode < 300 {
			webhook = StepDone
		} else {
			webhook = StepFailed
		}
	}

	return []TimelineStep{
		{Name: "Initiated", Status: StepDone},
		{Name: "Gateway Processing", Status: gateway},
		{Name: "Webhook Notification", Status: webhook},
		{Name: "Completed", Status: completed},
	}
}
