package rut

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reason identifies the first structural check a RUT fails.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonRequired
	ReasonTooShort
	ReasonTooLong
	ReasonNonNumeric
	ReasonChecksum
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonRequired:
		return "required"
	case ReasonTooShort:
		return "too_short"
	case ReasonTooLong:
		return "too_long"
	case ReasonNonNumeric:
		return "non_numeric"
	case ReasonChecksum:
		return "checksum"
	default:
		return "unknown"
	}
}

// Check runs the validation steps in order and returns the first failure.
func Check(s string) Reason {
	cleaned := []rune(Clean(s))
	switch {
	case len(cleaned) == 0:
		return ReasonRequired
	case len(cleaned) < MinCleanLen:
		return ReasonTooShort
	case len(cleaned) > MaxCleanLen:
		return ReasonTooLong
	}

	body := string(cleaned[:len(cleaned)-1])
	supplied := string(cleaned[len(cleaned)-1])
	if !isDigits(body) {
		return ReasonNonNumeric
	}
	computed, err := ComputeVerifier(body)
	if err != nil {
		return ReasonNonNumeric
	}
	if !strings.EqualFold(string(computed), supplied) {
		return ReasonChecksum
	}
	return ReasonNone
}

// Message keys double as the English catalog entries.
const (
	msgRequired   = "RUT is required"
	msgTooShort   = "RUT is too short"
	msgTooLong    = "RUT is too long"
	msgNonNumeric = "RUT body must be numeric"
	msgChecksum   = "RUT has an invalid check digit"
)

// DefaultLanguage is used by ErrorMessage.
var DefaultLanguage = language.Spanish

var (
	catalogLanguages = []language.Tag{language.Spanish, language.English}
	matcher          = language.NewMatcher(catalogLanguages)
)

func init() {
	es := map[string]string{
		msgRequired:   "RUT es requerido",
		msgTooShort:   "RUT muy corto",
		msgTooLong:    "RUT muy largo",
		msgNonNumeric: "El cuerpo del RUT debe ser numérico",
		msgChecksum:   "RUT inválido",
	}
	for key, text := range es {
		_ = message.SetString(language.Spanish, key, text)
		_ = message.SetString(language.English, key, key)
	}
}

// ErrorMessage returns the diagnostic for s in DefaultLanguage, or false when s is valid.
func ErrorMessage(s string) (string, bool) {
	return ErrorMessageIn(DefaultLanguage, s)
}

// ErrorMessageIn is ErrorMessage for an explicit language. Unsupported tags
// fall back to the closest catalogued language.
func ErrorMessageIn(tag language.Tag, s string) (string, bool) {
	r := Check(s)
	if r == ReasonNone {
		return "", false
	}
	return Describe(tag, r), true
}

// Describe returns the localized text for r.
func Describe(tag language.Tag, r Reason) string {
	_, idx, _ := matcher.Match(tag)
	p := message.NewPrinter(catalogLanguages[idx])
	switch r {
	case ReasonRequired:
		return p.Sprintf(msgRequired)
	case ReasonTooShort:
		return p.Sprintf(msgTooShort)
	case ReasonTooLong:
		return p.Sprintf(msgTooLong)
	case ReasonNonNumeric:
		return p.Sprintf(msgNonNumeric)
	case ReasonChecksum:
		return p.Sprintf(msgChecksum)
	default:
		return ""
	}
}
