// Package rut validates and formats Chilean RUT identifiers (Rol Único Tributario).
//
// A RUT is a numeric body followed by a verification character computed with a
// weighted modulo-11 checksum. The canonical form is XX.XXX.XXX-V.
package rut

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// MinCleanLen and MaxCleanLen bound the cleaned RUT (body plus verifier).
	MinCleanLen = 8
	MaxCleanLen = 9
)

var (
	ErrEmptyBody      = errors.New("rut body is empty")
	ErrNonNumericBody = errors.New("rut body must contain only digits")
)

// Clean strips '.' and '-' separators and uppercases the result.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '.' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// Normalize folds compatibility characters (full-width digits, small and
// full-width dashes and stops) to their ASCII forms with NFKC. Clean and
// Validate never normalize; callers reading RUTs pasted from spreadsheets
// or forms apply Normalize first.
func Normalize(s string) string {
	return norm.NFKC.String(s)
}

// ComputeVerifier returns the verification character for a digit-only body.
func ComputeVerifier(body string) (byte, error) {
	if body == "" {
		return 0, ErrEmptyBody
	}
	if !isDigits(body) {
		return 0, ErrNonNumericBody
	}

	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + r), nil
	}
}

// Validate reports whether s is a structurally valid RUT with a matching verifier.
func Validate(s string) bool {
	return Check(s) == ReasonNone
}

// Format returns the canonical dotted form of s. It does not validate; inputs
// shorter than two characters after cleaning are returned cleaned.
func Format(s string) string {
	cleaned := []rune(Clean(s))
	if len(cleaned) < 2 {
		return string(cleaned)
	}
	body := cleaned[:len(cleaned)-1]
	verifier := cleaned[len(cleaned)-1]

	var b strings.Builder
	for i, r := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte('-')
	b.WriteRune(verifier)
	return b.String()
}

// ValidateAndFormat returns the canonical form of s and true when s is valid.
func ValidateAndFormat(s string) (string, bool) {
	if !Validate(s) {
		return "", false
	}
	return Format(s), true
}

// Split returns the cleaned body and verifier of s. ok is false when the
// cleaned value is shorter than two characters.
func Split(s string) (body string, verifier string, ok bool) {
	cleaned := []rune(Clean(s))
	if len(cleaned) < 2 {
		return "", "", false
	}
	return string(cleaned[:len(cleaned)-1]), string(cleaned[len(cleaned)-1]), true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
