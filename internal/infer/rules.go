// Package infer derives field metadata from bare placeholder names.
//
// All heuristics live in ordered, declarative rule tables evaluated
// first-match-wins over case-insensitive substring checks, so new domain
// vocabularies are added as data rather than new conditionals.
package infer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field types.
const (
	TypeText   = "text"
	TypeDate   = "date"
	TypeEmail  = "email"
	TypeNumber = "number"
	TypeURL    = "url"
	TypeOption = "option"
)

type rule struct {
	keys   []string
	result string
}

type optionRule struct {
	keys    []string
	choices []string
}

var typeRules = []rule{
	{keys: []string{"date"}, result: TypeDate},
	{keys: []string{"email"}, result: TypeEmail},
	{keys: []string{"number", "amount", "reg_no"}, result: TypeNumber},
	{keys: []string{"url"}, result: TypeURL},
	{keys: []string{"gender", "relation", "he_she", "his_her", "relationship", "religion", "level"}, result: TypeOption},
}

var defaultRules = []rule{
	{keys: []string{"name", "full_name", "student_name", "applicant_name"}, result: "Joe Doe"},
	{keys: []string{"address", "sender_address", "my_address", "location", "residence"}, result: "24 Avenue Avenue, Osato Junction, Benin City, Edo State"},
	{keys: []string{"street"}, result: "24 Avenue Avenue"},
	{keys: []string{"city", "town"}, result: "Benin City"},
	{keys: []string{"state"}, result: "Edo State"},
	{keys: []string{"department", "dept"}, result: "Production Engineering"},
	{keys: []string{"faculty"}, result: "Engineering"},
	{keys: []string{"college", "institution", "university", "school"}, result: "University of Benin"},
	{keys: []string{"mat_no", "matric_no", "reg_no", "student_id", "registration_number"}, result: "ENG2204223"},
	{keys: []string{"gender"}, result: "Male"},
	{keys: []string{"his_her", "his_she"}, result: "his"},
	{keys: []string{"him_her", "him_she"}, result: "him"},
	{keys: []string{"he_she", "heshe"}, result: "he"},
}

var helpRules = []rule{
	{keys: []string{"name", "full_name"}, result: "Enter your full name (e.g., John Smith)"},
	{keys: []string{"address"}, result: "Enter your full address separated by commas"},
	{keys: []string{"department"}, result: "Enter your department name"},
	{keys: []string{"faculty"}, result: "Enter your faculty name"},
	{keys: []string{"mat_no", "reg_no", "jamb_reg_no"}, result: "Enter your matriculation/registration number"},
	{keys: []string{"date"}, result: "Leave blank for current date or enter custom date"},
	{keys: []string{"gender"}, result: "Select your gender"},
	{keys: []string{"email"}, result: "Enter your email address"},
}

var optionRules = []optionRule{
	{keys: []string{"gender"}, choices: []string{"Male", "Female"}},
	{keys: []string{"his_her"}, choices: []string{"his", "her"}},
	{keys: []string{"him_her"}, choices: []string{"him", "her"}},
	{keys: []string{"he_she"}, choices: []string{"he", "she"}},
	{keys: []string{"religion"}, choices: []string{"Christian", "Muslim"}},
	{keys: []string{"relationship", "relation"}, choices: []string{"son", "daughter", "niece", "nephew", "brother", "sister"}},
}

func matchFirst(rules []rule, name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, r := range rules {
		for _, k := range r.keys {
			if strings.Contains(lower, k) {
				return r.result, true
			}
		}
	}
	return "", false
}

// Type maps a placeholder name to its semantic field type.
func Type(name string) string {
	if t, ok := matchFirst(typeRules, name); ok {
		return t
	}
	return TypeText
}

// DefaultValue supplies a plausible sample value for a placeholder name.
// Date and time fields always get an empty default, which means auto-fill
// with the current date at render time.
func DefaultValue(name string) string {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		return ""
	}
	if v, ok := matchFirst(defaultRules, name); ok {
		return v
	}
	return "Enter " + DisplayName(name)
}

// HelpText supplies free-text guidance for a placeholder name.
func HelpText(name string) string {
	if h, ok := matchFirst(helpRules, name); ok {
		return h
	}
	return "Please enter " + strings.ToLower(DisplayName(name))
}

// Options returns the fixed candidate list for option-typed names, or an
// empty slice when the name carries no known vocabulary.
func Options(name string) []string {
	lower := strings.ToLower(name)
	for _, r := range optionRules {
		for _, k := range r.keys {
			if strings.Contains(lower, k) {
				return append([]string(nil), r.choices...)
			}
		}
	}
	return []string{}
}

var titleCaser = cases.Title(language.English)

// DisplayName converts a raw placeholder name to a human-readable label.
func DisplayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}
