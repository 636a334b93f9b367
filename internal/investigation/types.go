// Package investigation models the report bundle produced for an incident:
// the incident record, the flash report, the causal tree, the action plan
// and the final report.
package investigation

import (
	"time"

	"github.com/causa-hse/causa/internal/causal"
	"github.com/causa-hse/causa/internal/labels"
)

const (
	DefaultDocumentFilename = "causa.investigation.json"
	SchemaVersion           = 1
)

type Document struct {
	SchemaVersion int          `json:"schemaVersion" yaml:"schemaVersion"`
	Incident      Incident     `json:"incident" yaml:"incident"`
	FlashReport   *FlashReport `json:"flashReport,omitempty" yaml:"flashReport,omitempty"`
	CausalTree    *causal.Tree `json:"causalTree,omitempty" yaml:"causalTree,omitempty"`
	Actions       []Action     `json:"actions,omitempty" yaml:"actions,omitempty"`
	FinalReport   *FinalReport `json:"finalReport,omitempty" yaml:"finalReport,omitempty"`
}

type Person struct {
	Name string `json:"name" yaml:"name"`
	RUT  string `json:"rut,omitempty" yaml:"rut,omitempty"`
}

type Incident struct {
	ID          string          `json:"id" yaml:"id"`
	Code        string          `json:"code,omitempty" yaml:"code,omitempty"`
	Title       string          `json:"title" yaml:"title"`
	Category    labels.Category `json:"category" yaml:"category"`
	Severity    labels.Severity `json:"severity" yaml:"severity"`
	Status      labels.Status   `json:"status" yaml:"status"`
	OccurredAt  time.Time       `json:"occurredAt" yaml:"occurredAt"`
	Site        string          `json:"site,omitempty" yaml:"site,omitempty"`
	Area        string          `json:"area,omitempty" yaml:"area,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Reporter    *Person         `json:"reporter,omitempty" yaml:"reporter,omitempty"`
}

type FlashReport struct {
	Summary          string    `json:"summary" yaml:"summary"`
	ImmediateActions []string  `json:"immediateActions,omitempty" yaml:"immediateActions,omitempty"`
	ReportedAt       time.Time `json:"reportedAt,omitzero" yaml:"reportedAt,omitempty"`
}

type Action struct {
	ID          string              `json:"id" yaml:"id"`
	Description string              `json:"description" yaml:"description"`
	Responsible Person              `json:"responsible" yaml:"responsible"`
	DueDate     time.Time           `json:"dueDate" yaml:"dueDate"`
	Status      labels.ActionStatus `json:"status" yaml:"status"`
	CauseIDs    []string            `json:"causeIds,omitempty" yaml:"causeIds,omitempty"`
	CompletedAt time.Time           `json:"completedAt,omitzero" yaml:"completedAt,omitempty"`
}

type FinalReport struct {
	Conclusions    string    `json:"conclusions" yaml:"conclusions"`
	LessonsLearned []string  `json:"lessonsLearned,omitempty" yaml:"lessonsLearned,omitempty"`
	ClosedAt       time.Time `json:"closedAt,omitzero" yaml:"closedAt,omitempty"`
}

func NewDocument(incident Incident) Document {
	return Document{
		SchemaVersion: SchemaVersion,
		Incident:      incident,
	}
}

// EffectiveStatus reports overdue for open actions whose due date has passed.
func EffectiveStatus(a Action, now time.Time) labels.ActionStatus {
	if a.Status == labels.ActionCompleted {
		return a.Status
	}
	if !a.DueDate.IsZero() && a.DueDate.Before(now) {
		return labels.ActionOverdue
	}
	return a.Status
}

// Overdue returns the actions whose effective status is overdue, in plan order.
func Overdue(d Document, now time.Time) []Action {
	var out []Action
	for _, a := range d.Actions {
		if EffectiveStatus(a, now) == labels.ActionOverdue {
			out = append(out, a)
		}
	}
	return out
}
