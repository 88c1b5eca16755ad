package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Header, search bar, tab row, and toast line take fixed rows.
		contentHeight := m.height - 7
		if contentHeight < 3 {
			contentHeight = 3
		}
		m.viewport = viewport.New(m.width, contentHeight)
		m.input.Width = m.width - 10
		m.ready = true
		m.refreshContent()

	case tea.KeyMsg:
		m.toast = ""
		m.toastIsErr = false

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Back):
			if m.showHistory {
				m.showHistory = false
				m.refreshContent()
			}
			return m, nil

		case key.Matches(msg, keys.Kind):
			m.kindIndex = (m.kindIndex + 1) % len(searchKinds)
			m.view = nil
			m.activeTab = 0
			m.showHistory = false
			m.refreshContent()
			return m, nil

		case key.Matches(msg, keys.History):
			m.showHistory = !m.showHistory
			if m.showHistory {
				return m, fetchHistory(m.client, m.Kind())
			}
			m.refreshContent()
			return m, nil

		case key.Matches(msg, keys.NextTab):
			if m.view != nil && len(m.view.Tabs) > 0 {
				m.activeTab = (m.activeTab + 1) % len(m.view.Tabs)
				m.refreshContent()
			}
			return m, nil

		case key.Matches(msg, keys.PrevTab):
			if m.view != nil && len(m.view.Tabs) > 0 {
				m.activeTab = (m.activeTab - 1 + len(m.view.Tabs)) % len(m.view.Tabs)
				m.refreshContent()
			}
			return m, nil

		case key.Matches(msg, keys.Export):
			if m.view == nil {
				m.setToast("Load a result before exporting", true)
				return m, nil
			}
			return m, exportResult(m.client, m.Kind())

		case key.Matches(msg, keys.Resend):
			if m.view == nil {
				m.setToast("Load a result before resending", true)
				return m, nil
			}
			return m, resendWebhook(m.client, m.Kind())

		case key.Matches(msg, keys.Search):
			if m.showHistory {
				// Enter on the history panel replays the top entry.
				if len(m.history) > 0 {
					return m, replayEntry(m.client, m.history[0].ID)
				}
				return m, nil
			}

			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				m.setToast("Enter a search term first", true)
				return m, nil
			}
			if m.searching {
				return m, nil
			}
			m.searching = true
			m.refreshContent()
			return m, runSearch(m.client, m.Kind(), query)
		}

		// Everything else feeds the search input.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case healthTickMsg:
		cmds = append(cmds, fetchHealth(m.client), scheduleHealth())

	case healthMsg:
		m.connected = msg.err == nil

	case searchDoneMsg:
		m.searching = false
		if msg.err != nil {
			m.view = nil
			m.setToast(msg.err.Error(), true)
		} else {
			m.view = msg.view
			m.activeTab = 0
		}
		m.refreshContent()

	case historyMsg:
		if msg.err != nil {
			m.setToast(msg.err.Error(), true)
			m.showHistory = false
		} else {
			m.history = msg.entries
		}
		m.refreshContent()

	case replayMsg:
		if msg.err != nil {
			m.setToast(msg.err.Error(), true)
		} else {
			// Replay only repopulates the input. The operator presses
			// enter again to actually re-run the search.
			m.input.SetValue(msg.query)
			m.input.CursorEnd()
			m.showHistory = false
		}
		m.refreshContent()

	case actionDoneMsg:
		if msg.err != nil {
			m.setToast(msg.err.Error(), true)
		} else {
			m.setToast(msg.message, false)
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setToast(message string, isErr bool) {
	m.toast = message
	m.toastIsErr = isErr
}
