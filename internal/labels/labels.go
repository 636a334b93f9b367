// Package labels maps incident, action and causal-node tags to display labels.
//
// Every table is an exhaustive switch over the known tags; an unknown tag is
// returned unchanged so data from newer API versions still renders.
package labels

import (
	"golang.org/x/text/language"

	"github.com/causa-hse/causa/internal/causal"
)

type Category string

const (
	CategoryAccident            Category = "accident"
	CategoryIncident            Category = "incident"
	CategoryNearMiss            Category = "near_miss"
	CategoryOccupationalDisease Category = "occupational_disease"
	CategoryEnvironmental       Category = "environmental"
	CategoryPropertyDamage      Category = "property_damage"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Status string

const (
	StatusReported      Status = "reported"
	StatusFlashReport   Status = "flash_report"
	StatusInvestigating Status = "investigating"
	StatusActionPlan    Status = "action_plan"
	StatusClosed        Status = "closed"
)

type ActionStatus string

const (
	ActionPending    ActionStatus = "pending"
	ActionInProgress ActionStatus = "in_progress"
	ActionCompleted  ActionStatus = "completed"
	ActionOverdue    ActionStatus = "overdue"
)

// Locale selects the label language.
type Locale int

const (
	Spanish Locale = iota
	English
)

var matcher = language.NewMatcher([]language.Tag{language.Spanish, language.English})

// LocaleFor picks the closest supported locale for tag; Spanish is the default.
func LocaleFor(tag language.Tag) Locale {
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return English
	}
	return Spanish
}

// ParseLocale accepts BCP 47 strings such as "es", "es-CL" or "en-US".
func ParseLocale(s string) Locale {
	tag, err := language.Parse(s)
	if err != nil {
		return Spanish
	}
	return LocaleFor(tag)
}

func (l Locale) Tag() language.Tag {
	if l == English {
		return language.English
	}
	return language.Spanish
}

func pick(l Locale, es, en string) string {
	if l == English {
		return en
	}
	return es
}

func (c Category) Label(l Locale) string {
	switch c {
	case CategoryAccident:
		return pick(l, "Accidente", "Accident")
	case CategoryIncident:
		return pick(l, "Incidente", "Incident")
	case CategoryNearMiss:
		return pick(l, "Cuasi accidente", "Near miss")
	case CategoryOccupationalDisease:
		return pick(l, "Enfermedad profesional", "Occupational disease")
	case CategoryEnvironmental:
		return pick(l, "Ambiental", "Environmental")
	case CategoryPropertyDamage:
		return pick(l, "Daño a la propiedad", "Property damage")
	default:
		return string(c)
	}
}

func (s Severity) Label(l Locale) string {
	switch s {
	case SeverityLow:
		return pick(l, "Baja", "Low")
	case SeverityMedium:
		return pick(l, "Media", "Medium")
	case SeverityHigh:
		return pick(l, "Alta", "High")
	case SeverityCritical:
		return pick(l, "Crítica", "Critical")
	default:
		return string(s)
	}
}

func (s Status) Label(l Locale) string {
	switch s {
	case StatusReported:
		return pick(l, "Reportado", "Reported")
	case StatusFlashReport:
		return pick(l, "Reporte flash", "Flash report")
	case StatusInvestigating:
		return pick(l, "En investigación", "Under investigation")
	case StatusActionPlan:
		return pick(l, "Plan de acción", "Action plan")
	case StatusClosed:
		return pick(l, "Cerrado", "Closed")
	default:
		return string(s)
	}
}

func (s ActionStatus) Label(l Locale) string {
	switch s {
	case ActionPending:
		return pick(l, "Pendiente", "Pending")
	case ActionInProgress:
		return pick(l, "En curso", "In progress")
	case ActionCompleted:
		return pick(l, "Completada", "Completed")
	case ActionOverdue:
		return pick(l, "Vencida", "Overdue")
	default:
		return string(s)
	}
}

func NodeType(t causal.NodeType, l Locale) string {
	switch t {
	case causal.NodeFinalEvent:
		return pick(l, "Evento final", "Final event")
	case causal.NodeUnusualFact:
		return pick(l, "Hecho inusual", "Unusual fact")
	case causal.NodePermanentFact:
		return pick(l, "Hecho permanente", "Permanent fact")
	case causal.NodeRootCause:
		return pick(l, "Causa raíz", "Root cause")
	default:
		return string(t)
	}
}

// Kind names a label table for callers holding untyped tags.
type Kind string

const (
	KindCategory     Kind = "category"
	KindSeverity     Kind = "severity"
	KindStatus       Kind = "status"
	KindActionStatus Kind = "action_status"
	KindNodeType     Kind = "node_type"
)

// Label looks tag up in the table named by kind. Unknown kinds and unknown
// tags return tag unchanged.
func Label(kind Kind, tag string, l Locale) string {
	switch kind {
	case KindCategory:
		return Category(tag).Label(l)
	case KindSeverity:
		return Severity(tag).Label(l)
	case KindStatus:
		return Status(tag).Label(l)
	case KindActionStatus:
		return ActionStatus(tag).Label(l)
	case KindNodeType:
		return NodeType(causal.NodeType(tag), l)
	default:
		return tag
	}
}

// Heading returns fixed section and column titles used by exports.
func Heading(key string, l Locale) string {
	switch key {
	case "incident":
		return pick(l, "Incidente", "Incident")
	case "flash_report":
		return pick(l, "Reporte flash", "Flash report")
	case "causal_tree":
		return pick(l, "Árbol de causas", "Causal tree")
	case "level":
		return pick(l, "Nivel", "Level")
	case "action_plan":
		return pick(l, "Plan de acción", "Action plan")
	case "final_report":
		return pick(l, "Informe final", "Final report")
	case "code":
		return pick(l, "Código", "Code")
	case "title":
		return pick(l, "Título", "Title")
	case "category":
		return pick(l, "Categoría", "Category")
	case "severity":
		return pick(l, "Severidad", "Severity")
	case "status":
		return pick(l, "Estado", "Status")
	case "occurred_at":
		return pick(l, "Fecha del suceso", "Occurred at")
	case "site":
		return pick(l, "Faena", "Site")
	case "area":
		return pick(l, "Área", "Area")
	case "reporter":
		return pick(l, "Reportado por", "Reported by")
	case "description":
		return pick(l, "Descripción", "Description")
	case "summary":
		return pick(l, "Resumen", "Summary")
	case "immediate_actions":
		return pick(l, "Acciones inmediatas", "Immediate actions")
	case "reported_at":
		return pick(l, "Fecha de reporte", "Reported at")
	case "numero":
		return "N°"
	case "type":
		return pick(l, "Tipo", "Type")
	case "fact":
		return pick(l, "Hecho", "Fact")
	case "causes":
		return pick(l, "Causas", "Causes")
	case "responsible":
		return pick(l, "Responsable", "Responsible")
	case "due_date":
		return pick(l, "Fecha compromiso", "Due date")
	case "conclusions":
		return pick(l, "Conclusiones", "Conclusions")
	case "lessons_learned":
		return pick(l, "Lecciones aprendidas", "Lessons learned")
	case "closed_at":
		return pick(l, "Fecha de cierre", "Closed at")
	case "effects":
		return pick(l, "Efectos", "Effects")
	case "created_at":
		return pick(l, "Creado", "Created")
	case "updated_at":
		return pick(l, "Actualizado", "Updated")
	case "unreachable":
		return pick(l, "Nodos sin conexión al evento final", "Nodes not connected to the final event")
	default:
		return key
	}
}
