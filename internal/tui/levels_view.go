package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

// RenderLevelsView lists nodes grouped by depth from the final event. When
// the pane is shorter than the list, the window follows the selection.
func RenderLevelsView(model Model) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	if len(model.tree.Nodes) == 0 {
		return muted.Render("No nodes.")
	}

	var lines []string
	selectedLine := 0
	appendNode := func(n causal.Node) {
		if n.ID == model.selectedID {
			selectedLine = len(lines)
		}
		lines = append(lines, renderNodeLine(model, n))
	}

	if len(model.levels) == 0 {
		lines = append(lines, muted.Render("No final event."))
		for _, n := range causal.NodeList(model.tree) {
			appendNode(n)
		}
	} else {
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
		for _, depth := range model.levels.Depths() {
			lines = append(lines, headerStyle.Render(fmt.Sprintf("%s %d", labels.Heading("level", model.locale), depth)))
			for _, n := range model.levels[depth] {
				appendNode(n)
			}
		}
	}

	return strings.Join(visibleWindow(lines, selectedLine, model.windowHeight), "\n")
}

func renderNodeLine(model Model, n causal.Node) string {
	marker := " "
	if model.unreachable[n.ID] {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("!")
	}
	typeLabel := nodeTypeStyle(n.NodeType).Render(labels.NodeType(n.NodeType, model.locale))
	line := fmt.Sprintf("  %s %3d %s %s", marker, n.Numero, typeLabel, n.Fact)

	if n.ID == model.selectedID {
		return lipgloss.NewStyle().Reverse(true).Bold(true).Render(line)
	}
	return line
}

func nodeTypeStyle(t causal.NodeType) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	switch t {
	case causal.NodeFinalEvent:
		style = style.Foreground(lipgloss.Color("196"))
	case causal.NodeUnusualFact:
		style = style.Foreground(lipgloss.Color("214"))
	case causal.NodePermanentFact:
		style = style.Foreground(lipgloss.Color("69"))
	case causal.NodeRootCause:
		style = style.Foreground(lipgloss.Color("42"))
	}
	return style
}

// visibleWindow returns at most height lines keeping line selected in view.
// A non-positive height returns every line.
func visibleWindow(lines []string, selected int, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}
