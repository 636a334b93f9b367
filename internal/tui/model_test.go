package tui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

func sampleTree() causal.Tree {
	return causal.FromList("INC-42", []causal.Node{
		{ID: "f", Numero: 1, NodeType: causal.NodeFinalEvent, Fact: "Fall from platform", ParentNodes: []string{"a", "b"}},
		{ID: "a", Numero: 2, NodeType: causal.NodeUnusualFact, Fact: "Harness not anchored", ParentNodes: []string{"c"}},
		{ID: "b", Numero: 3, NodeType: causal.NodePermanentFact, Fact: "No anchor points", ParentNodes: []string{"c"}},
		{ID: "c", Numero: 4, NodeType: causal.NodeRootCause, Fact: "Work at height not planned"},
		{ID: "x", Numero: 5, NodeType: causal.NodeUnusualFact, Fact: "Loose note"},
	})
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestNewModel_OrdersByLevel(t *testing.T) {
	m := NewModel(sampleTree(), labels.Spanish)

	want := []string{"f", "x", "a", "b", "c"}
	if !reflect.DeepEqual(m.order, want) {
		t.Fatalf("order = %v, want %v", m.order, want)
	}
	if m.selectedID != "f" {
		t.Fatalf("selected = %q, want f", m.selectedID)
	}
	if !m.unreachable["x"] || len(m.unreachable) != 1 {
		t.Fatalf("unreachable = %v, want only x", m.unreachable)
	}
}

func TestNewModel_WithoutFinalEventKeepsNodesBrowsable(t *testing.T) {
	tree := causal.FromList("", []causal.Node{
		{ID: "b", Numero: 2, NodeType: causal.NodeRootCause, Fact: "B"},
		{ID: "a", Numero: 1, NodeType: causal.NodeUnusualFact, Fact: "A"},
	})
	m := NewModel(tree, labels.English)
	if !reflect.DeepEqual(m.order, []string{"a", "b"}) {
		t.Fatalf("order = %v", m.order)
	}
	if len(m.unreachable) != 0 {
		t.Fatalf("unreachable = %v, want none without a final event", m.unreachable)
	}

	view := RenderLevelsView(m)
	if !strings.Contains(view, "No final event.") || !strings.Contains(view, "A") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestUpdate_NavigatesSelection(t *testing.T) {
	m := NewModel(sampleTree(), labels.Spanish)

	steps := []struct {
		key  string
		want string
	}{
		{key: "down", want: "x"},
		{key: "j", want: "a"},
		{key: "G", want: "c"},
		{key: "down", want: "c"},
		{key: "k", want: "b"},
		{key: "g", want: "f"},
		{key: "up", want: "f"},
	}
	for _, step := range steps {
		m = press(m, step.key)
		if m.selectedID != step.want {
			t.Fatalf("after %q selected = %q, want %q", step.key, m.selectedID, step.want)
		}
	}
}

func TestUpdate_TabScrollsDetailInsteadOfMoving(t *testing.T) {
	m := NewModel(sampleTree(), labels.Spanish)
	m = press(m, "tab", "j", "j")

	if m.activePane != PaneDetail {
		t.Fatalf("active pane = %v, want detail", m.activePane)
	}
	if m.selectedID != "f" {
		t.Fatalf("selection moved to %q while detail pane active", m.selectedID)
	}
	if m.detailOffset != 2 {
		t.Fatalf("detailOffset = %d, want 2", m.detailOffset)
	}

	m = press(m, "tab", "j")
	if m.activePane != PaneLevels || m.selectedID != "x" {
		t.Fatalf("pane = %v selected = %q", m.activePane, m.selectedID)
	}
	if m.detailOffset != 0 {
		t.Fatalf("changing selection should reset detailOffset, got %d", m.detailOffset)
	}
}

func TestUpdate_DetailScrollStopsAtEnd(t *testing.T) {
	m := NewModel(sampleTree(), labels.English)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 10})
	m = updated.(Model)

	limit := m.detailScrollLimit()
	if limit <= 0 {
		t.Fatalf("limit = %d, want content taller than the pane", limit)
	}

	m = press(m, "tab", "pgdown", "pgdown", "pgdown", "pgdown", "j", "j")
	if m.detailOffset != limit {
		t.Fatalf("detailOffset = %d, want clamped to %d", m.detailOffset, limit)
	}
	m = press(m, "k")
	if m.detailOffset != limit-1 {
		t.Fatalf("after k detailOffset = %d, want %d", m.detailOffset, limit-1)
	}
	m = press(m, "g", "G")
	if m.detailOffset != limit {
		t.Fatalf("after G detailOffset = %d, want %d", m.detailOffset, limit)
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := NewModel(sampleTree(), labels.Spanish)
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%q: expected quit command", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%q: expected tea.QuitMsg", msg.String())
		}
	}
}

func TestView_RendersPanesAtWindowSize(t *testing.T) {
	m := NewModel(sampleTree(), labels.Spanish)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"Árbol de causas", "Nivel 0", "Fall from platform", "[q]uit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines >= 30 {
		t.Fatalf("view has %d lines, want fewer than the window height", lines)
	}
}

func TestSplitPaneWidths(t *testing.T) {
	left, right := splitPaneWidths(120)
	if left+right != 116 {
		t.Fatalf("left+right = %d, want 116", left+right)
	}
	if left, right := splitPaneWidths(0); left != 0 || right != 0 {
		t.Fatalf("zero width = %d,%d", left, right)
	}
}
