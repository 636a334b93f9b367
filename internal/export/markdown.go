package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func renderMarkdown(w io.Writer, r report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", mdEscape(r.Title))
	if len(r.Fields) > 0 {
		fmt.Fprintf(bw, "## %s\n\n", r.heading("incident"))
		for _, f := range r.Fields {
			fmt.Fprintf(bw, "- **%s:** %s\n", f.Label, mdEscape(f.Value))
		}
		fmt.Fprintln(bw)
	}
	if r.Description != "" {
		fmt.Fprintf(bw, "%s\n\n", mdParagraph(r.Description))
	}

	if r.Flash != nil {
		fmt.Fprintf(bw, "## %s\n\n", r.heading("flash_report"))
		if r.Flash.ReportedAt != "" {
			fmt.Fprintf(bw, "- **%s:** %s\n\n", r.heading("reported_at"), r.Flash.ReportedAt)
		}
		fmt.Fprintf(bw, "%s\n\n", mdParagraph(r.Flash.Summary))
		if len(r.Flash.ImmediateActions) > 0 {
			fmt.Fprintf(bw, "### %s\n\n", r.heading("immediate_actions"))
			for _, a := range r.Flash.ImmediateActions {
				fmt.Fprintf(bw, "- %s\n", mdLine(a))
			}
			fmt.Fprintln(bw)
		}
	}

	if len(r.Levels) > 0 {
		fmt.Fprintf(bw, "## %s\n\n", r.heading("causal_tree"))
		for _, level := range r.Levels {
			fmt.Fprintf(bw, "### %s\n\n", level.Title)
			writeMDTable(bw,
				[]string{r.heading("numero"), r.heading("type"), r.heading("fact"), r.heading("causes")},
				nodeCells(level.Rows))
			fmt.Fprintln(bw)
		}
		if len(r.Unreachable) > 0 {
			fmt.Fprintf(bw, "> %s: %s\n\n", r.heading("unreachable"), strings.Join(r.Unreachable, ", "))
		}
	}

	if len(r.Actions) > 0 {
		fmt.Fprintf(bw, "## %s\n\n", r.heading("action_plan"))
		writeMDTable(bw,
			[]string{"ID", r.heading("description"), r.heading("responsible"), r.heading("due_date"), r.heading("status"), r.heading("causes")},
			actionCells(r.Actions))
		fmt.Fprintln(bw)
	}

	if r.Final != nil {
		fmt.Fprintf(bw, "## %s\n\n", r.heading("final_report"))
		if r.Final.ClosedAt != "" {
			fmt.Fprintf(bw, "- **%s:** %s\n\n", r.heading("closed_at"), r.Final.ClosedAt)
		}
		fmt.Fprintf(bw, "### %s\n\n%s\n\n", r.heading("conclusions"), mdParagraph(r.Final.Conclusions))
		if len(r.Final.LessonsLearned) > 0 {
			fmt.Fprintf(bw, "### %s\n\n", r.heading("lessons_learned"))
			for _, l := range r.Final.LessonsLearned {
				fmt.Fprintf(bw, "- %s\n", mdLine(l))
			}
			fmt.Fprintln(bw)
		}
	}

	return bw.Flush()
}

func writeMDTable(w io.Writer, headers []string, rows [][]string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = mdEscape(c)
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

func nodeCells(rows []nodeRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, n := range rows {
		out = append(out, []string{n.Numero, n.Type, n.Fact, n.Causes})
	}
	return out
}

func actionCells(rows []actionRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, a := range rows {
		out = append(out, []string{a.ID, a.Description, a.Responsible, a.DueDate, a.Status, a.Causes})
	}
	return out
}

var mdReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

func mdEscape(s string) string {
	return mdReplacer.Replace(s)
}

// mdParagraph keeps the line breaks of free text but stops a line from
// opening a heading, quote, list or table.
func mdParagraph(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = escapeBlockStart(strings.TrimRight(line, " \t"))
	}
	return strings.Join(lines, "\n")
}

// mdLine flattens text onto a single line for list items.
func mdLine(s string) string {
	return escapeBlockStart(strings.Join(strings.Fields(s), " "))
}

func escapeBlockStart(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	switch trimmed[0] {
	case '#', '>', '-', '*', '+', '|', '=':
		return indent + `\` + trimmed
	}
	// Ordered list markers: "12." or "12)".
	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(trimmed) && (trimmed[digits] == '.' || trimmed[digits] == ')') {
		return indent + trimmed[:digits] + `\` + trimmed[digits:]
	}
	return line
}
