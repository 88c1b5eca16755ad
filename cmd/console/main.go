// Package main is the paydesk terminal console: an interactive client for the
// ops gateway that mirrors the web dashboard's search-and-reconcile workflow.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adeyinka/paydesk/internal/tui"
	"github.com/adeyinka/paydesk/internal/tui/api"
)

func main() {
	apiURL := flag.String("api-url", "http://localhost:8080", "paydesk gateway URL")
	flag.Parse()

	client := api.NewClient(*apiURL)
	m := tui.NewModel(client, *apiURL)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
