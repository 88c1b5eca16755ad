package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/present"
)

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	sections := []string{
		m.viewHeader(),
		m.viewSearchBar(),
		m.viewport.View(),
		m.viewFooter(),
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Background(theme.Base).
		Render(strings.Join(sections, "\n"))
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}

	var content string
	switch {
	case m.showHistory:
		content = m.viewHistory()
	case m.searching:
		content = lipgloss.NewStyle().Foreground(theme.Muted).Padding(1, 2).Render("Searching...")
	case m.view == nil:
		content = lipgloss.NewStyle().Foreground(theme.Muted).Padding(1, 2).
			Render(fmt.Sprintf("Search for a %s by reference, session ID, or account number.", m.Kind()))
	default:
		content = lipgloss.JoinVertical(lipgloss.Left, m.viewTabs(), "", m.viewTabContent())
	}

	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m Model) viewHeader() string {
	fig := figure.NewFigure("paydesk", "", false)
	title := lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Join(fig.Slicify(), "\n"))

	conn := lipgloss.NewStyle().Foreground(theme.Success).Render("● " + m.apiURL)
	if !m.connected {
		conn = lipgloss.NewStyle().Foreground(theme.Error).Render("○ " + m.apiURL)
	}

	kinds := make([]string, len(searchKinds))
	for i, kind := range searchKinds {
		style := lipgloss.NewStyle().Foreground(theme.Muted)
		if i == m.kindIndex {
			style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		}
		kinds[i] = style.Render(strings.ToUpper(string(kind)))
	}

	statusRow := lipgloss.JoinHorizontal(lipgloss.Top,
		strings.Join(kinds, "  "),
		lipgloss.NewStyle().Foreground(theme.Border).Render("  │  "),
		conn,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, statusRow)
}

func (m Model) viewSearchBar() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(m.width - 4).
		Render(m.input.View())
}

func (m Model) viewTabs() string {
	if m.view == nil {
		return ""
	}

	rendered := make([]string, len(m.view.Tabs))
	for i, tab := range m.view.Tabs {
		style := lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1)
		if i == m.activeTab {
			style = lipgloss.NewStyle().
				Foreground(theme.Text).
				Background(theme.Surface).
				Bold(true).
				Padding(0, 1)
		}
		rendered[i] = style.Render(tab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewTabContent() string {
	v := m.view
	if v == nil || len(v.Tabs) == 0 {
		return ""
	}

	switch v.Tabs[m.activeTab] {
	case "Overview":
		return m.viewOverview()
	case "Transfer", "Banking", "Payment":
		return m.viewPayment()
	case "Accounts":
		return m.viewAccounts()
	case "Webhook":
		return m.viewWebhook()
	case "Gateway":
		return m.viewJSON(v.GatewayView)
	case "Business":
		return m.viewBusiness()
	case "Timeline":
		return m.viewTimeline()
	}
	return ""
}

func (m Model) viewOverview() string {
	v := m.view
	r := v.Result

	badge := lipgloss.NewStyle().
		Foreground(statusColor(v.StatusVisual.Color)).
		Bold(true).
		Render(fmt.Sprintf("%s %s", v.StatusVisual.Icon, strings.ToUpper(string(r.Status))))

	rows := [][2]string{
		{"Reference", r.Reference},
		{"Amount", v.AmountDisplay},
		{"Fee", v.FeeDisplay + "  (" + v.FeePercentDisplay + ")"},
		{v.SystemFeeLabel, v.SystemFeeDisplay},
		{"Net Amount", v.NetAmountDisplay},
		{"Payment Mode", r.PaymentMode},
		{"Domain", r.Domain},
		{"Created", formatTimestamp(r)},
	}

	return lipgloss.JoinVertical(lipgloss.Left, badge, "", renderRows(rows))
}

func (m Model) viewPayment() string {
	r := m.view.Result

	var rows [][2]string
	if p := r.Recipient; p != nil {
		rows = append(rows,
			[2]string{"Account Name", p.AccountName},
			[2]string{"Account Number", p.AccountNumber},
			[2]string{"Bank", p.BankName},
			[2]string{"Bank Code", p.BankCode},
		)
	}
	rows = append(rows,
		[2]string{"Session ID", r.SessionID},
		[2]string{"Narration", r.Narration},
	)

	return renderRows(rows)
}

func (m Model) viewAccounts() string {
	r := m.view.Result

	render := func(title string, p *domain.Party) string {
		header := lipgloss.NewStyle().Foreground(theme.Info).Bold(true).Render(title)
		if p == nil {
			return lipgloss.JoinVertical(lipgloss.Left, header,
				lipgloss.NewStyle().Foreground(theme.Muted).Render("  Not available"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, renderRows([][2]string{
			{"Account Name", p.AccountName},
			{"Account Number", p.AccountNumber},
			{"Bank", p.BankName},
			{"Bank Code", p.BankCode},
		}))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		render("Sender", r.Sender), "", render("Recipient", r.Recipient))
}

func (m Model) viewWebhook() string {
	r := m.view.Result

	if r.WebhookEvent == nil {
		return lipgloss.NewStyle().Foreground(theme.Muted).Render("No webhook delivery recorded")
	}

	ev := r.WebhookEvent
	info := renderRows([][2]string{
		{"Event", ev.Event},
		{"Response Code", fmt.Sprintf("%d", ev.ResponseCode)},
		{"Attempts", fmt.Sprintf("%d", ev.Round)},
		{"Response", ev.Response},
	})

	return lipgloss.JoinVertical(lipgloss.Left, info, "", m.viewJSON(m.view.WebhookRequestView))
}

func (m Model) viewJSON(jv present.JSONView) string {
	style := lipgloss.NewStyle().Foreground(theme.Subtext)
	if jv.State == present.JSONViewEmpty {
		style = lipgloss.NewStyle().Foreground(theme.Muted)
	}
	return style.Render(jv.Content)
}

func (m Model) viewBusiness() string {
	r := m.view.Result

	if r.Business == nil {
		rows := [][2]string{{"Business ID", r.BusinessID}}
		return renderRows(rows)
	}

	b := r.Business
	return renderRows([][2]string{
		{"Business ID", b.ID},
		{"Name", b.Name},
		{"Trade Name", b.TradeName},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"KYC Status", b.KYCStatus},
	})
}

func (m Model) viewTimeline() string {
	var lines []string
	for _, step := range m.view.Timeline {
		var marker string
		var color lipgloss.Color
		switch step.Status {
		case present.StepDone:
			marker, color = "✓", theme.Success
		case present.StepActive:
			marker, color = "●", theme.Info
		case present.StepFailed:
			marker, color = "✗", theme.Error
		default:
			marker, color = "○", theme.Muted
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(color).Render(
			fmt.Sprintf("  %s %s", marker, step.Name)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewHistory() string {
	header := lipgloss.NewStyle().Foreground(theme.Info).Bold(true).
		Render(fmt.Sprintf("Recent %s searches", m.Kind()))

	if len(m.history) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.NewStyle().Foreground(theme.Muted).Render("  No searches yet"))
	}

	lines := []string{header, ""}
	for i, entry := range m.history {
		marker := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !entry.Found {
			marker = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
		line := fmt.Sprintf("  %s %s  %s", marker,
			lipgloss.NewStyle().Foreground(theme.Text).Render(entry.Query),
			lipgloss.NewStyle().Foreground(theme.Muted).Render(entry.Timestamp.Format("15:04:05")))
		if i == 0 {
			line += lipgloss.NewStyle().Foreground(theme.Accent).Render("  (enter to replay)")
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m Model) viewFooter() string {
	if m.toast != "" {
		color := theme.Success
		if m.toastIsErr {
			color = theme.Error
		}
		return lipgloss.NewStyle().Foreground(color).Padding(0, 1).Render(m.toast)
	}

	help := []string{
		"enter search", "ctrl+k entity", "tab views", "ctrl+h history",
		"ctrl+e export", "ctrl+w resend", "ctrl+c quit",
	}
	return lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1).
		Render(strings.Join(help, " · "))
}

func renderRows(rows [][2]string) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.Muted).Width(16)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Text)

	var lines []string
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = present.NotAvailable
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(row[0]), valueStyle.Render(value)))
	}
	return strings.Join(lines, "\n")
}

func formatTimestamp(r *domain.Result) string {
	if r.CreatedAt.IsZero() {
		return present.NotAvailable
	}
	return r.CreatedAt.Format("2006-01-02 15:04:05")
}
