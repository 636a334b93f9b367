package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	textTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	textSectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	textLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	textWarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	textHeaderStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	textCellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func renderText(w io.Writer, r report) error {
	var blocks []string
	blocks = append(blocks, textTitleStyle.Render(r.Title))

	if len(r.Fields) > 0 {
		lines := make([]string, 0, len(r.Fields))
		for _, f := range r.Fields {
			lines = append(lines, textLabelStyle.Render(f.Label+":")+" "+f.Value)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if r.Description != "" {
		blocks = append(blocks, r.Description)
	}

	if r.Flash != nil {
		lines := []string{textSectionStyle.Render(r.heading("flash_report")), r.Flash.Summary}
		for _, a := range r.Flash.ImmediateActions {
			lines = append(lines, "- "+a)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if len(r.Levels) > 0 {
		blocks = append(blocks, textSectionStyle.Render(r.heading("causal_tree")))
		for _, level := range r.Levels {
			t := textTable([]string{r.heading("numero"), r.heading("type"), r.heading("fact"), r.heading("causes")}, nodeCells(level.Rows))
			blocks = append(blocks, level.Title+"\n"+t)
		}
		if len(r.Unreachable) > 0 {
			blocks = append(blocks, textWarnStyle.Render(fmt.Sprintf("%s: %s", r.heading("unreachable"), strings.Join(r.Unreachable, ", "))))
		}
	}

	if len(r.Actions) > 0 {
		t := textTable(
			[]string{"ID", r.heading("description"), r.heading("responsible"), r.heading("due_date"), r.heading("status"), r.heading("causes")},
			actionCells(r.Actions))
		blocks = append(blocks, textSectionStyle.Render(r.heading("action_plan"))+"\n"+t)
	}

	if r.Final != nil {
		lines := []string{textSectionStyle.Render(r.heading("final_report")), r.Final.Conclusions}
		for _, l := range r.Final.LessonsLearned {
			lines = append(lines, "- "+l)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	_, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n")
	return err
}

func textTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return textHeaderStyle
			}
			return textCellStyle
		}).
		String()
}
