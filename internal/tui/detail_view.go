package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

func RenderDetailView(model Model) string {
	content, ok := detailContent(model)
	if !ok {
		return content
	}
	return applyViewport(model, content)
}

// detailContent renders the selected node before scrolling. ok is false when
// there is no node to show and content is a placeholder.
func detailContent(model Model) (content string, ok bool) {
	if model.selectedID == "" {
		return emptyDetailView("No node selected."), false
	}
	n, found := model.tree.Nodes[model.selectedID]
	if !found {
		return emptyDetailView(fmt.Sprintf("Unknown node %q.", model.selectedID)), false
	}

	l := model.locale
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	labelStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder
	writeSectionHeader(&b, headerStyle, fmt.Sprintf("%s %d", labels.Heading("numero", l), n.Numero))
	writeLabeledLine(&b, labelStyle, "ID", n.ID)
	writeLabeledLine(&b, labelStyle, labels.Heading("type", l), labels.NodeType(n.NodeType, l))
	level := "-"
	if depth, ok := model.levels.DepthOf(n.ID); ok {
		level = fmt.Sprintf("%d", depth)
	}
	writeLabeledLine(&b, labelStyle, labels.Heading("level", l), level)
	writeLabeledLine(&b, labelStyle, labels.Heading("created_at", l), formatTimestamp(n.CreatedAt))
	writeLabeledLine(&b, labelStyle, labels.Heading("updated_at", l), formatTimestamp(n.UpdatedAt))
	if model.unreachable[n.ID] {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(warn.Render(labels.Heading("unreachable", l)) + "\n")
	}
	b.WriteString("\n")

	writeSectionHeader(&b, headerStyle, labels.Heading("fact", l))
	if strings.TrimSpace(n.Fact) == "" {
		b.WriteString(mutedStyle.Render("(none)") + "\n\n")
	} else {
		b.WriteString(n.Fact)
		b.WriteString("\n\n")
	}

	writeSectionHeader(&b, headerStyle, labels.Heading("causes", l))
	writeNodeRefs(&b, model.tree, n.ParentNodes, mutedStyle)

	writeSectionHeader(&b, headerStyle, labels.Heading("effects", l))
	writeNodeRefs(&b, model.tree, causal.Effects(model.tree, n.ID), mutedStyle)

	return strings.TrimRight(b.String(), "\n"), true
}

// maxDetailOffset is the last scroll offset that still fills the viewport.
func maxDetailOffset(content string, height int) int {
	maxOffset := len(strings.Split(content, "\n")) - height
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

func writeNodeRefs(b *strings.Builder, t causal.Tree, ids []string, muted lipgloss.Style) {
	if len(ids) == 0 {
		b.WriteString(muted.Render("(none)") + "\n\n")
		return
	}
	for _, id := range ids {
		ref, ok := t.Nodes[id]
		if !ok {
			b.WriteString(fmt.Sprintf("- %s [unknown]\n", id))
			continue
		}
		b.WriteString(fmt.Sprintf("- %d [%s] %s\n", ref.Numero, ref.NodeType, ref.Fact))
	}
	b.WriteString("\n")
}

func emptyDetailView(message string) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("240"))
	return style.Render(message)
}

func writeSectionHeader(b *strings.Builder, style lipgloss.Style, title string) {
	b.WriteString(style.Render(title))
	b.WriteString("\n")
}

func writeLabeledLine(b *strings.Builder, labelStyle lipgloss.Style, label string, value string) {
	b.WriteString(labelStyle.Render(label + ": "))
	b.WriteString(value)
	b.WriteString("\n")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "(unknown)"
	}
	return t.UTC().Format(time.RFC3339)
}

// applyViewport renders content in a viewport. model.windowHeight is the pane's
// content height; the viewport fills that area at model.detailOffset.
func applyViewport(model Model, content string) string {
	height := model.windowHeight
	width := model.windowWidth
	if height <= 0 || width <= 0 {
		return content
	}
	view := viewport.New(width, height)
	view.SetContent(content)
	offset := model.detailOffset
	if offset < 0 {
		offset = 0
	}
	if maxOffset := maxDetailOffset(content, height); offset > maxOffset {
		offset = maxOffset
	}
	view.SetYOffset(offset)
	return view.View()
}
