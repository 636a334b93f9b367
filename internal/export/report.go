package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/investigation"
	"github.com/causa-hse/causa/internal/labels"
	"github.com/causa-hse/causa/internal/rut"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

// report is the format-independent view every renderer walks.
type report struct {
	Locale      labels.Locale
	Title       string
	Fields      []field
	Description string
	Flash       *flashSection
	Levels      []levelSection
	Unreachable []string
	Actions     []actionRow
	Final       *finalSection
}

type field struct {
	Label string
	Value string
}

type flashSection struct {
	Summary          string
	ImmediateActions []string
	ReportedAt       string
}

type levelSection struct {
	Depth int
	Title string
	Rows  []nodeRow
}

type nodeRow struct {
	Numero string
	Type   string
	Fact   string
	Causes string
}

type actionRow struct {
	ID          string
	Description string
	Responsible string
	DueDate     string
	Status      string
	Causes      string
}

type finalSection struct {
	Conclusions    string
	LessonsLearned []string
	ClosedAt       string
}

func (r report) heading(key string) string {
	return labels.Heading(key, r.Locale)
}

func buildReport(d investigation.Document, opts Options) report {
	loc := opts.Locale
	inc := d.Incident
	r := report{
		Locale:      loc,
		Title:       inc.Title,
		Description: inc.Description,
	}
	if inc.Code != "" {
		r.Title = inc.Code + " " + inc.Title
	}

	r.Fields = appendField(r.Fields, labels.Heading("code", loc), inc.Code)
	r.Fields = appendField(r.Fields, labels.Heading("category", loc), inc.Category.Label(loc))
	r.Fields = appendField(r.Fields, labels.Heading("severity", loc), inc.Severity.Label(loc))
	r.Fields = appendField(r.Fields, labels.Heading("status", loc), inc.Status.Label(loc))
	r.Fields = appendField(r.Fields, labels.Heading("occurred_at", loc), formatTime(inc.OccurredAt, dateTimeLayout))
	r.Fields = appendField(r.Fields, labels.Heading("site", loc), inc.Site)
	r.Fields = appendField(r.Fields, labels.Heading("area", loc), inc.Area)
	if inc.Reporter != nil {
		r.Fields = appendField(r.Fields, labels.Heading("reporter", loc), personLabel(*inc.Reporter))
	}

	if fr := d.FlashReport; fr != nil {
		r.Flash = &flashSection{
			Summary:          fr.Summary,
			ImmediateActions: fr.ImmediateActions,
			ReportedAt:       formatTime(fr.ReportedAt, dateTimeLayout),
		}
	}

	numeros := map[string]string{}
	if d.CausalTree != nil {
		tree := *d.CausalTree
		for id, n := range tree.Nodes {
			numeros[id] = strconv.Itoa(n.Numero)
		}

		nodes := causal.NodeList(tree)
		levels := causal.ComputeLevels(nodes)
		for _, depth := range levels.Depths() {
			section := levelSection{
				Depth: depth,
				Title: fmt.Sprintf("%s %d", labels.Heading("level", loc), depth),
			}
			for _, n := range levels[depth] {
				section.Rows = append(section.Rows, nodeRow{
					Numero: strconv.Itoa(n.Numero),
					Type:   labels.NodeType(n.NodeType, loc),
					Fact:   n.Fact,
					Causes: refList(n.ParentNodes, numeros),
				})
			}
			r.Levels = append(r.Levels, section)
		}
		for _, id := range causal.Unreachable(nodes) {
			r.Unreachable = append(r.Unreachable, refOf(id, numeros))
		}
	}

	for _, a := range d.Actions {
		r.Actions = append(r.Actions, actionRow{
			ID:          a.ID,
			Description: a.Description,
			Responsible: personLabel(a.Responsible),
			DueDate:     formatTime(a.DueDate, dateLayout),
			Status:      investigation.EffectiveStatus(a, opts.Now).Label(loc),
			Causes:      refList(a.CauseIDs, numeros),
		})
	}

	if fin := d.FinalReport; fin != nil {
		r.Final = &finalSection{
			Conclusions:    fin.Conclusions,
			LessonsLearned: fin.LessonsLearned,
			ClosedAt:       formatTime(fin.ClosedAt, dateLayout),
		}
	}
	return r
}

func appendField(fields []field, label, value string) []field {
	if value == "" {
		return fields
	}
	return append(fields, field{Label: label, Value: value})
}

func personLabel(p investigation.Person) string {
	if p.RUT == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, rut.Format(p.RUT))
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func refOf(id string, numeros map[string]string) string {
	if n, ok := numeros[id]; ok {
		return n
	}
	return id
}

func refList(ids []string, numeros map[string]string) string {
	refs := make([]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, refOf(id, numeros))
	}
	return strings.Join(refs, ", ")
}
