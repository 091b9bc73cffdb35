// Package validation holds the field-level rules shared by the area, role and
// employee services. Every validator is pure: it returns nil or an error whose
// message is the reason shown to the user.
package validation

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLen is the column width of every name and email field.
const DefaultMaxLen = 250

var (
	catalogNamePattern = regexp.MustCompile(`^[A-Za-z0-9 -]+$`)
	personNamePattern  = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñ ]+$`)
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NameRule describes an allowed name shape and the reason reported for each
// kind of failure.
type NameRule struct {
	MaxLen        int
	Pattern       *regexp.Regexp
	EmptyReason   string
	TooLongReason string
	CharsetReason string
}

// CatalogName is the rule for area and role names.
var CatalogName = NameRule{
	MaxLen:        DefaultMaxLen,
	Pattern:       catalogNamePattern,
	EmptyReason:   "El nombre no puede estar vacío.",
	TooLongReason: "El nombre no puede exceder 250 caracteres.",
	CharsetReason: "Solo se permiten letras, números, guiones y espacios en el nombre.",
}

const personNameReason = "El nombre es obligatorio, solo permite letras y espacios, máximo 250 caracteres."

// PersonName is the rule for employee names: letters (accented vowels and ñ
// included) and spaces only.
var PersonName = NameRule{
	MaxLen:        DefaultMaxLen,
	Pattern:       personNamePattern,
	EmptyReason:   personNameReason,
	TooLongReason: personNameReason,
	CharsetReason: personNameReason,
}

// Normalize trims surrounding whitespace and composes accents (NFC) so that
// "a" followed by U+0301 compares equal to "á".
func Normalize(value string) string {
	return strings.TrimSpace(norm.NFC.String(value))
}

// ValidateName checks emptiness, length (in characters) and charset.
func ValidateName(value string, rule NameRule) error {
	maxLen := rule.MaxLen
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	switch {
	case value == "":
		return errors.New(rule.EmptyReason)
	case utf8.RuneCountInString(value) > maxLen:
		return errors.New(rule.TooLongReason)
	case rule.Pattern != nil && !rule.Pattern.MatchString(value):
		return errors.New(rule.CharsetReason)
	}
	return nil
}

// EmailReason is reported for any malformed, missing or oversized address.
const EmailReason = "El correo es obligatorio y debe tener formato válido (máximo 250 caracteres)."

// ValidateEmail accepts local@domain.tld shaped addresses up to maxLen characters.
func ValidateEmail(value string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if value == "" || utf8.RuneCountInString(value) > maxLen || !emailPattern.MatchString(value) {
		return errors.New(EmailReason)
	}
	return nil
}

// ValidateEnum fails with reason unless value is one of allowed.
func ValidateEnum(value string, allowed []string, reason string) error {
	if !slices.Contains(allowed, value) {
		return errors.New(reason)
	}
	return nil
}

// ValidateLength fails with reason unless min <= len(value) <= max, counted in characters.
func ValidateLength(value string, min, max int, reason string) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return errors.New(reason)
	}
	return nil
}
