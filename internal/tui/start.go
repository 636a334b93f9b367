// Package tui is the interactive causal tree browser.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

// Start runs the browser on the alternate screen until the user quits.
func Start(t causal.Tree, locale labels.Locale) error {
	program := tea.NewProgram(NewModel(t, locale), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
