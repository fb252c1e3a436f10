// Package transform validates submitted values against merged field
// definitions and applies the template-type-specific value transforms:
// locale-correct date phrasing, address reflow, and casing.
package transform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"docugen/internal/fieldset"
)

// Template types with dedicated phrasing rules.
const (
	TypeLetter    = "letter"
	TypeAffidavit = "affidavit"
)

// westAfricaTime is the fixed civil timezone (UTC+1, no DST) all rendered
// dates are expressed in.
var westAfricaTime = time.FixedZone("WAT", 60*60)

// ValidationError collects every violation from one submission. It aborts a
// generation attempt before any file is written.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "\n")
}

// Validate checks required-ness and validation patterns for each merged
// field against the submitted values. All violations are collected and
// reported together, keyed by display name; nil means the submission is
// acceptable.
func Validate(views []fieldset.View, inputs map[string]string) error {
	var violations []string

	for _, v := range views {
		value := inputs[v.Name]
		if v.IsRequired && strings.TrimSpace(value) == "" {
			violations = append(violations, fmt.Sprintf("%s is required", v.DisplayName))
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		for _, member := range v.Members {
			if member.ValidationPattern == "" {
				continue
			}
			re, err := regexp.Compile(member.ValidationPattern)
			if err != nil {
				continue
			}
			if !re.MatchString(value) {
				violations = append(violations, fmt.Sprintf("%s is invalid", v.DisplayName))
				break
			}
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Ordinal suffixes a day-of-month: 1st, 2nd, 3rd, 4th... with the teens
// always taking "th".
func Ordinal(n int) string {
	if m := n % 100; m >= 11 && m <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// FormatDate renders a submitted date in the template type's phrasing. An
// empty value is auto-filled with the current West Africa time. Values that
// cannot be parsed pass through unchanged: a bad date is not an error, the
// user sees exactly what they typed.
func FormatDate(value, templateType string) string {
	var t time.Time
	if strings.TrimSpace(value) == "" {
		t = time.Now().In(westAfricaTime)
	} else {
		parsed, err := dateparse.ParseIn(value, westAfricaTime)
		if err != nil {
			return value
		}
		t = parsed.In(westAfricaTime)
	}

	day := Ordinal(t.Day())
	month := t.Month().String()
	year := t.Year()

	if strings.EqualFold(templateType, TypeAffidavit) {
		return fmt.Sprintf("%s of %s, %d", day, month, year)
	}
	return fmt.Sprintf("%s %s, %d", day, month, year)
}

// FormatAddress reflows an address for the template type. Letters break at
// commas with one segment per line, a comma after every line but the last,
// and a final period. Affidavits keep the text as typed minus any trailing
// periods. Other types pass through unchanged.
func FormatAddress(value, templateType string) string {
	address := strings.TrimSpace(value)
	if address == "" {
		return value
	}

	switch {
	case strings.EqualFold(templateType, TypeLetter):
		var lines []string
		for _, part := range strings.Split(address, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) == 0 {
			return address
		}
		for i := 0; i < len(lines)-1; i++ {
			lines[i] += ","
		}
		if !strings.HasSuffix(lines[len(lines)-1], ".") {
			lines[len(lines)-1] += "."
		}
		return strings.Join(lines, "\n")

	case strings.EqualFold(templateType, TypeAffidavit):
		for strings.HasSuffix(address, ".") {
			address = strings.TrimSpace(strings.TrimSuffix(address, "."))
		}
		return address
	}

	return address
}

var titleCaser = cases.Title(language.English)

// ApplyCasing applies one of upper, lower, title, or none.
func ApplyCasing(value, casing string) string {
	switch casing {
	case "upper":
		return strings.ToUpper(value)
	case "lower":
		return strings.ToLower(value)
	case "title":
		return titleCaser.String(value)
	}
	return value
}
