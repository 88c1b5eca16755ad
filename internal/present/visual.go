package present

import "github.com/adeyinka/paydesk/internal/domain"

// StatusVisual describes how a status renders: badge icon, color token and
// whether the indicator pulses to signal an in-flight state.
type StatusVisual struct {
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Pulsing bool   `json:"pulsing"`
}

// statusVisuals is the fixed lookup from canonical status to its badge.
var statusVisuals = map[domain.Status]StatusVisual{
	domain.StatusPending:    {Icon: "clock", Color: "amber", Pulsing: true},
	domain.StatusProcessing: {Icon: "refresh", Color: "blue", Pulsing: true},
	domain.StatusSuccessful: {Icon: "check-circle", Color: "green", Pulsing: false},
	domain.StatusFailed:     {Icon: "x-circle", Color: "red", Pulsing: false},
	domain.StatusReversed:   {Icon: "rotate-ccw", Color: "purple", Pulsing: false},
}

// VisualFor returns the badge for a status. Unknown values fall back to the
// pending badge rather than failing; normalization has already logged them.
func VisualFor(status domain.Status) StatusVisual {
	if visual, ok := statusVisuals[status]; ok {
		return visual
	}
	return statusVisuals[domain.StatusPending]
}
