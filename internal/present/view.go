package present

import "github.com/adeyinka/paydesk/internal/domain"

// kindTabs fixes the tab set per entity type. Switching tabs never refetches;
// every tab is a different view of the same loaded result.
var kindTabs = map[domain.Kind][]string{
	domain.KindTransfer:    {"Overview", "Transfer", "Accounts", "Webhook", "Gateway", "Business", "Timeline"},
	domain.KindPayout:      {"Overview", "Banking", "Webhook", "Gateway", "Business", "Timeline"},
	domain.KindTransaction: {"Overview", "Payment", "Webhook", "Gateway", "Business", "Timeline"},
}

// systemFeeLabels names the system-fee component per entity. Transfers call
// it stamp duty; the arithmetic is identical.
var systemFeeLabels = map[domain.Kind]string{
	domain.KindTransfer:    "Stamp Duty",
	domain.KindPayout:      "System Fee",
	domain.KindTransaction: "System Fee",
}

// TabsFor returns the fixed tab set for an entity kind.
func TabsFor(kind domain.Kind) []string {
	tabs, ok := kindTabs[kind]
	if !ok {
		return kindTabs[domain.KindTransaction]
	}
	out := make([]string, len(tabs))
	copy(out, tabs)
	return out
}

// SystemFeeLabel returns the display label of the system-fee component.
func SystemFeeLabel(kind domain.Kind) string {
	if label, ok := systemFeeLabels[kind]; ok {
		return label
	}
	return "System Fee"
}

// View bundles every derived value the display surfaces need for one result.
// It is rebuilt from the raw result on each request.
type View struct {
	Result *domain.Result `json:"result"`

	NetAmount          float64        `json:"net_amount"`
	NetAmountDisplay   string         `json:"net_amount_display"`
	AmountDisplay      string         `json:"amount_display"`
	FeeDisplay         string         `json:"fee_display"`
	SystemFeeDisplay   string         `json:"system_fee_display"`
	SystemFeeLabel     string         `json:"system_fee_label"`
	FeePercentDisplay  string         `json:"fee_percent_display"`
	StatusVisual       StatusVisual   `json:"status_visual"`
	Tabs               []string       `json:"tabs"`
	Timeline           []TimelineStep `json:"timeline"`
	WebhookRequestView JSONView       `json:"webhook_request_view"`
	GatewayView        JSONView       `json:"gateway_view"`
}

// BuildView assembles the complete derived view for a result.
func BuildView(r *domain.Result) *View {
	webhookRaw := ""
	if r.WebhookEvent != nil {
		webhookRaw = r.WebhookEvent.Request
	}

	return &View{
		Result:             r,
		NetAmount:          NetAmount(r),
		NetAmountDisplay:   FormatMoney(NetAmount(r), r.Currency),
		AmountDisplay:      FormatMoney(r.Amount, r.Currency),
		FeeDisplay:         FormatMoney(r.Fee, r.Currency),
		SystemFeeDisplay:   FormatMoney(r.SystemFee, r.Currency),
		SystemFeeLabel:     SystemFeeLabel(r.Kind),
		FeePercentDisplay:  FormatFeePercent(r),
		StatusVisual:       VisualFor(r.Status),
		Tabs:               TabsFor(r.Kind),
		Timeline:           Timeline(r),
		WebhookRequestView: RenderJSON(webhookRaw),
		GatewayView:        RenderJSON(r.GatewayResponse),
	}
}
