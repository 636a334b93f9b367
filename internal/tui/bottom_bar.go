package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/causa-hse/causa/internal/labels"
)

func RenderBottomBar(model Model) string {
	left := strings.Join(keyHints(model), " ")

	right := fmt.Sprintf("nodes:%d levels:%d", len(model.tree.Nodes), len(model.levels))
	if n := len(model.unreachable); n > 0 {
		right = fmt.Sprintf("%s ! %s: %d", right, labels.Heading("unreachable", model.locale), n)
	}

	padding := 1
	contentWidth := model.windowWidth
	if contentWidth > 0 {
		contentWidth -= padding * 2
		if contentWidth < 0 {
			contentWidth = 0
		}
	}
	bar := layoutBar(left, right, contentWidth)

	style := lipgloss.NewStyle().Reverse(true).Padding(0, padding)
	return style.Render(bar)
}

func keyHints(model Model) []string {
	if model.activePane == PaneDetail {
		return []string{"[j/k]scroll", "[pgup/pgdn]page", "[tab]levels", "[q]uit"}
	}
	return []string{"[j/k]move", "[g/G]first/last", "[tab]detail", "[q]uit"}
}

func layoutBar(left string, right string, width int) string {
	if width <= 0 {
		return left + " " + right
	}
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	gap := width - leftWidth - rightWidth
	if gap < 1 {
		availableLeft := width - rightWidth - 1
		if availableLeft < 0 {
			return truncate(right, width)
		}
		left = truncate(left, availableLeft)
		leftWidth = lipgloss.Width(left)
		gap = width - leftWidth - rightWidth
		if gap < 1 {
			gap = 1
		}
	}
	return truncate(left+strings.Repeat(" ", gap)+right, width)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
