// Package tui implements the terminal console for the paydesk gateway. It is
// a thin client: every search, export, and webhook resend goes through the
// gateway's HTTP API so the console and the web dashboard share the same
// workflow semantics.
package tui

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adeyinka/paydesk/internal/domain"
	"github.com/adeyinka/paydesk/internal/present"
	"github.com/adeyinka/paydesk/internal/search"
	"github.com/adeyinka/paydesk/internal/tui/api"
)

// searchKinds is the entity rotation order for the kind switcher.
var searchKinds = []domain.Kind{domain.KindTransfer, domain.KindPayout, domain.KindTransaction}

// Model is the console's single bubbletea model.
type Model struct {
	client *api.Client
	apiURL string

	// workflow state
	kindIndex int
	view      *present.View
	history   []search.HistoryEntry
	searching bool

	// toast line at the bottom; cleared on the next keypress
	toast      string
	toastIsErr bool

	// ui state
	width       int
	height      int
	ready       bool
	activeTab   int
	showHistory bool
	connected   bool

	input    textinput.Model
	viewport viewport.Model
}

// Messages

type healthMsg struct {
	status string
	err    error
}

type searchDoneMsg struct {
	view *present.View
	err  error
}

type historyMsg struct {
	entries []search.HistoryEntry
	err     error
}

type replayMsg struct {
	query string
	err   error
}

type actionDoneMsg struct {
	action  string
	message string
	err     error
}

const healthInterval = 15 * time.Second

type healthTickMsg struct{}

// NewModel creates the console model.
func NewModel(client *api.Client, apiURL string) Model {
	input := textinput.New()
	input.Placeholder = "Reference, session ID, or account number"
	input.CharLimit = 128
	input.Focus()

	return Model{
		client: client,
		apiURL: apiURL,
		input:  input,
	}
}

// Kind returns the currently selected entity kind.
func (m Model) Kind() domain.Kind {
	return searchKinds[m.kindIndex]
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetchHealth(m.client), scheduleHealth())
}

// Commands

func fetchHealth(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		status, err := c.Health()
		return healthMsg{status, err}
	}
}

func scheduleHealth() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

func runSearch(c *api.Client, kind domain.Kind, query string) tea.Cmd {
	return func() tea.Msg {
		view, err := c.Search(kind, query)
		return searchDoneMsg{view, err}
	}
}

func fetchHistory(c *api.Client, kind domain.Kind) tea.Cmd {
	return func() tea.Msg {
		entries, err := c.History(kind)
		return historyMsg{entries, err}
	}
}

func replayEntry(c *api.Client, entryID string) tea.Cmd {
	return func() tea.Msg {
		query, err := c.Replay(entryID)
		return replayMsg{query, err}
	}
}

func resendWebhook(c *api.Client, kind domain.Kind) tea.Cmd {
	return func() tea.Msg {
		message, err := c.ResendWebhook(kind)
		return actionDoneMsg{action: "resend", message: message, err: err}
	}
}

// exportResult downloads the export document and writes it next to the
// console binary's working directory.
func exportResult(c *api.Client, kind domain.Kind) tea.Cmd {
	return func() tea.Msg {
		filename, data, err := c.Export(kind)
		if err != nil {
			return actionDoneMsg{action: "export", err: err}
		}

		path := filepath.Join(".", filename)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return actionDoneMsg{action: "export", err: err}
		}

		return actionDoneMsg{action: "export", message: "Saved " + filename}
	}
}
