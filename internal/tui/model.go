package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

type ActivePane int

const (
	PaneLevels ActivePane = iota
	PaneDetail
)

type Model struct {
	tree         causal.Tree
	levels       causal.Levels
	order        []string
	unreachable  map[string]bool
	locale       labels.Locale
	selectedID   string
	activePane   ActivePane
	windowWidth  int
	windowHeight int
	detailOffset int
}

func NewModel(t causal.Tree, locale labels.Locale) Model {
	m := Model{
		tree:        t,
		levels:      causal.TreeLevels(t),
		unreachable: map[string]bool{},
		locale:      locale,
		activePane:  PaneLevels,
	}
	for _, depth := range m.levels.Depths() {
		for _, n := range m.levels[depth] {
			m.order = append(m.order, n.ID)
		}
	}
	nodes := causal.NodeList(t)
	if len(m.order) == 0 {
		for _, n := range nodes {
			m.order = append(m.order, n.ID)
		}
	}
	for _, id := range causal.Unreachable(nodes) {
		m.unreachable[id] = true
	}
	if len(m.order) > 0 {
		m.selectedID = m.order[0]
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = typed.Width
		m.windowHeight = typed.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed.String())
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.activePane == PaneLevels {
			m.activePane = PaneDetail
		} else {
			m.activePane = PaneLevels
		}
		return m, nil
	}

	if m.activePane == PaneDetail {
		switch key {
		case "up", "k":
			if m.detailOffset > 0 {
				m.detailOffset--
			}
		case "down", "j":
			m.detailOffset++
		case "pgup":
			m.detailOffset -= m.detailPageSize()
			if m.detailOffset < 0 {
				m.detailOffset = 0
			}
		case "pgdown":
			m.detailOffset += m.detailPageSize()
		case "home", "g":
			m.detailOffset = 0
		case "end", "G":
			m.detailOffset = m.detailScrollLimit()
		}
		if limit := m.detailScrollLimit(); m.detailOffset > limit {
			m.detailOffset = limit
		}
		return m, nil
	}

	switch key {
	case "up", "k":
		m = m.moveSelection(-1)
	case "down", "j":
		m = m.moveSelection(1)
	case "home", "g":
		m = m.selectIndex(0)
	case "end", "G":
		m = m.selectIndex(len(m.order) - 1)
	}
	return m, nil
}

func (m Model) selectedIndex() int {
	for i, id := range m.order {
		if id == m.selectedID {
			return i
		}
	}
	return -1
}

func (m Model) moveSelection(delta int) Model {
	idx := m.selectedIndex()
	if idx < 0 {
		return m.selectIndex(0)
	}
	return m.selectIndex(idx + delta)
}

func (m Model) selectIndex(idx int) Model {
	if len(m.order) == 0 {
		return m
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.order) {
		idx = len(m.order) - 1
	}
	if m.order[idx] != m.selectedID {
		m.selectedID = m.order[idx]
		m.detailOffset = 0
	}
	return m
}

// detailPageSize returns the number of lines per page in the detail viewport,
// matching the pane content height (availableHeight = windowHeight-5).
func (m Model) detailPageSize() int {
	height := m.windowHeight - 5
	if height < 0 {
		return 0
	}
	return height
}

// detailScrollLimit is the largest detailOffset that keeps the detail pane
// full. Without a window size the whole content counts as scrollable.
func (m Model) detailScrollLimit() int {
	content, ok := detailContent(m)
	if !ok {
		return 0
	}
	return maxDetailOffset(content, m.detailPageSize())
}

func (m Model) View() string {
	// Each pane gets Height(availableHeight) plus a two-line border; the bar
	// and its newline take two more, leaving total output at windowHeight-1.
	availableHeight := m.windowHeight - 5
	if availableHeight < 0 {
		availableHeight = 0
	}
	if availableHeight == 0 {
		return RenderBottomBar(m)
	}
	return m.renderMainView(availableHeight) + "\n" + RenderBottomBar(m)
}

func (m Model) renderMainView(availableHeight int) string {
	if m.windowWidth <= 0 {
		return RenderLevelsView(m) + "\n\n" + RenderDetailView(m)
	}

	leftWidth, rightWidth := splitPaneWidths(m.windowWidth)
	levelsModel := m
	levelsModel.windowWidth = leftWidth
	levelsModel.windowHeight = availableHeight
	detailModel := m
	detailModel.windowWidth = rightWidth
	detailModel.windowHeight = availableHeight

	title := labels.Heading("causal_tree", m.locale)
	levelsBox := renderPane(RenderLevelsView(levelsModel), leftWidth, availableHeight, title, m.activePane == PaneLevels)
	detailBox := renderPane(RenderDetailView(detailModel), rightWidth, availableHeight, labels.Heading("fact", m.locale), m.activePane == PaneDetail)
	return lipgloss.JoinHorizontal(lipgloss.Top, levelsBox, detailBox)
}

func splitPaneWidths(total int) (int, int) {
	if total <= 0 {
		return 0, 0
	}
	// Each pane's rendered width is content width + 2 (left and right border).
	minLeft := 28
	minRight := 30
	available := total - 4
	if available < 0 {
		available = 0
	}
	left := available / 2
	if left < minLeft {
		left = minLeft
	}
	if available-left < minRight {
		left = available - minRight
		if left < minLeft {
			left = available / 2
		}
	}
	right := available - left
	if right < 0 {
		right = 0
	}
	return left, right
}

func renderPane(content string, width int, height int, title string, active bool) string {
	borderColor := lipgloss.Color("240")
	if active {
		borderColor = lipgloss.Color("69")
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width).
		Height(height).
		Padding(0, 1)
	rendered := style.Render(content)
	if title == "" {
		return rendered
	}

	// The top line holds ANSI codes, so rebuild it rather than splice runes.
	lines := strings.Split(rendered, "\n")
	if len(lines) < 2 {
		return rendered
	}
	targetWidth := lipgloss.Width(lines[1])
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)
	top := func(n int) string {
		return borderStyle.Render("╭ ") +
			titleStyle.Render(" "+title+" ") +
			borderStyle.Render(strings.Repeat("─", n)+"╮")
	}
	nMiddle := targetWidth - 7 - lipgloss.Width(title)
	if nMiddle < 0 {
		nMiddle = 0
	}
	topLine := top(nMiddle)
	if w := lipgloss.Width(topLine); w < targetWidth {
		topLine = top(nMiddle + targetWidth - w)
	}
	lines[0] = topLine
	return strings.Join(lines, "\n")
}
