// Package format renders optional values for the pt-BR transcript documents.
//
// Every helper accepts a pointer and prints Placeholder when it is nil, so a
// missing value can never be displayed as a zero.
package format

import (
	"math"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder is shown wherever an optional value is absent.
const Placeholder = "—"

// DateLayout is the pt-BR short date layout (dd/mm/yyyy).
const DateLayout = "02/01/2006"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Score formats a final score with exactly one decimal place ("8,5").
func Score(v *float64) string {
	if !valid(v) {
		return Placeholder
	}
	return Decimal(*v, 1)
}

// Percent formats an attendance rate as a whole-number percentage ("95%").
func Percent(v *float64) string {
	if !valid(v) {
		return Placeholder
	}
	return Decimal(*v, 0) + "%"
}

// WholeNumber formats v rounded to an integer with pt-BR grouping.
func WholeNumber(v *float64) string {
	if !valid(v) {
		return Placeholder
	}
	return Decimal(*v, 0)
}

// Int formats an optional integer with pt-BR grouping ("1.200").
func Int(v *int) string {
	if v == nil {
		return Placeholder
	}
	return printer.Sprint(number.Decimal(*v))
}

// Decimal formats v with a fixed number of fraction digits. Halves round
// away from zero (8,25 → 8,3; 94,5 → 95).
func Decimal(v float64, digits int) string {
	return printer.Sprint(number.Decimal(roundHalfAway(v, digits),
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

// Date formats an optional date as dd/mm/yyyy.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.Format(DateLayout)
}

// IssueDate formats the issuance date of a document.
func IssueDate(t time.Time) string {
	return t.Format(DateLayout)
}

// String dereferences s, returning "" for nil.
func String(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OrPlaceholder returns s, or Placeholder when s is blank.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// StringOrPlaceholder is OrPlaceholder for optional strings.
func StringOrPlaceholder(s *string) string {
	return OrPlaceholder(String(s))
}

// Slug turns a name into a lowercase ASCII token for file names
// ("João da Silva" → "joao-da-silva"). An empty result becomes fallback.
func Slug(name, fallback string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return fallback
	}
	return slug
}

// roundHalfAway rounds v to digits fraction digits before the printer sees
// it, since x/text/number rounds half to even.
func roundHalfAway(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
