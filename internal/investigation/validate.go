package investigation

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/rut"
)

type ValidationError = causal.ValidationError

// Validate checks the document and, when present, its causal tree. RUT
// diagnostics are reported in lang.
func Validate(d Document, lang language.Tag) []ValidationError {
	var errs []ValidationError

	if d.SchemaVersion == 0 {
		errs = append(errs, ValidationError{Path: "$.schemaVersion", Message: "required"})
	} else if d.SchemaVersion != SchemaVersion {
		errs = append(errs, ValidationError{
			Path:    "$.schemaVersion",
			Message: fmt.Sprintf("unsupported schemaVersion %d (expected %d)", d.SchemaVersion, SchemaVersion),
		})
	}

	inc := d.Incident
	if inc.ID == "" {
		errs = append(errs, ValidationError{Path: "$.incident.id", Message: "required"})
	}
	if inc.Title == "" {
		errs = append(errs, ValidationError{Path: "$.incident.title", Message: "required"})
	}
	if inc.OccurredAt.IsZero() {
		errs = append(errs, ValidationError{Path: "$.incident.occurredAt", Message: "required (RFC3339 timestamp)"})
	}
	if inc.Reporter != nil {
		errs = append(errs, checkPerson("$.incident.reporter", *inc.Reporter, lang)...)
	}

	if fr := d.FlashReport; fr != nil {
		if fr.Summary == "" {
			errs = append(errs, ValidationError{Path: "$.flashReport.summary", Message: "required"})
		}
		if !fr.ReportedAt.IsZero() && !inc.OccurredAt.IsZero() && fr.ReportedAt.Before(inc.OccurredAt) {
			errs = append(errs, ValidationError{Path: "$.flashReport.reportedAt", Message: "must be >= incident.occurredAt"})
		}
	}

	if d.CausalTree != nil {
		for _, e := range causal.Validate(*d.CausalTree) {
			errs = append(errs, ValidationError{
				Path:    "$.causalTree" + strings.TrimPrefix(e.Path, "$"),
				Message: e.Message,
			})
		}
	}

	seen := map[string]bool{}
	for i, a := range d.Actions {
		path := fmt.Sprintf("$.actions[%d]", i)
		if a.ID == "" {
			errs = append(errs, ValidationError{Path: path + ".id", Message: "required"})
		} else if seen[a.ID] {
			errs = append(errs, ValidationError{Path: path + ".id", Message: fmt.Sprintf("duplicate action id %q", a.ID)})
		}
		seen[a.ID] = true

		if a.Description == "" {
			errs = append(errs, ValidationError{Path: path + ".description", Message: "required"})
		}
		if a.Responsible.Name == "" {
			errs = append(errs, ValidationError{Path: path + ".responsible.name", Message: "required"})
		}
		errs = append(errs, checkPerson(path+".responsible", a.Responsible, lang)...)
		if a.DueDate.IsZero() {
			errs = append(errs, ValidationError{Path: path + ".dueDate", Message: "required (RFC3339 timestamp)"})
		}
		if a.Status == "" {
			errs = append(errs, ValidationError{Path: path + ".status", Message: "required"})
		}
		if d.CausalTree != nil {
			for j, causeID := range a.CauseIDs {
				if _, ok := d.CausalTree.Nodes[causeID]; !ok {
					errs = append(errs, ValidationError{
						Path:    fmt.Sprintf("%s.causeIds[%d]", path, j),
						Message: fmt.Sprintf("unknown causal node id %q", causeID),
					})
				}
			}
		}
	}

	if fin := d.FinalReport; fin != nil {
		if fin.Conclusions == "" {
			errs = append(errs, ValidationError{Path: "$.finalReport.conclusions", Message: "required"})
		}
		if !fin.ClosedAt.IsZero() && !inc.OccurredAt.IsZero() && fin.ClosedAt.Before(inc.OccurredAt) {
			errs = append(errs, ValidationError{Path: "$.finalReport.closedAt", Message: "must be >= incident.occurredAt"})
		}
	}

	return errs
}

func checkPerson(path string, p Person, lang language.Tag) []ValidationError {
	if p.RUT == "" {
		return nil
	}
	if msg, bad := rut.ErrorMessageIn(lang, p.RUT); bad {
		return []ValidationError{{Path: path + ".rut", Message: msg}}
	}
	return nil
}
