package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"section", "ref", "level", "type", "text", "causes", "responsible", "due_date", "status"}

// renderCSV writes one row per causal node followed by one row per action.
func renderCSV(w io.Writer, r report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, level := range r.Levels {
		depth := strconv.Itoa(level.Depth)
		for _, n := range level.Rows {
			if err := cw.Write([]string{"node", n.Numero, depth, n.Type, n.Fact, n.Causes, "", "", ""}); err != nil {
				return err
			}
		}
	}
	for _, a := range r.Actions {
		if err := cw.Write([]string{"action", a.ID, "", "", a.Description, a.Causes, a.Responsible, a.DueDate, a.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
