package transform

import (
	"errors"
	"strings"
	"testing"
	"time"

	"docugen/internal/fieldset"
	"docugen/internal/models"
)

func TestOrdinal(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{23, "23rd"},
		{101, "101st"},
		{111, "111th"},
	}
	for _, tc := range cases {
		if got := Ordinal(tc.n); got != tc.want {
			t.Errorf("Ordinal(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatDateLetter(t *testing.T) {
	if got := FormatDate("2025-09-22", TypeLetter); got != "22nd September, 2025" {
		t.Errorf("FormatDate letter = %q", got)
	}
}

func TestFormatDateAffidavit(t *testing.T) {
	if got := FormatDate("2025-09-22", TypeAffidavit); got != "22nd of September, 2025" {
		t.Errorf("FormatDate affidavit = %q", got)
	}
}

func TestFormatDateUnparseablePassesThrough(t *testing.T) {
	if got := FormatDate("not a date", TypeLetter); got != "not a date" {
		t.Errorf("unparseable value should pass through, got %q", got)
	}
}

func TestFormatDateEmptyUsesNow(t *testing.T) {
	got := FormatDate("", TypeLetter)
	now := time.Now().In(westAfricaTime)
	if !strings.Contains(got, now.Month().String()) {
		t.Errorf("empty date should use the current month, got %q", got)
	}
	if !strings.HasSuffix(got, ", "+now.Format("2006")) {
		t.Errorf("empty date should use the current year, got %q", got)
	}
}

func TestFormatDateVariants(t *testing.T) {
	// Several common entry formats should resolve to the same phrasing.
	for _, value := range []string{"2025-09-22", "09/22/2025", "September 22, 2025"} {
		if got := FormatDate(value, TypeLetter); got != "22nd September, 2025" {
			t.Errorf("FormatDate(%q) = %q", value, got)
		}
	}
}

func TestFormatAddressLetter(t *testing.T) {
	got := FormatAddress("24 Avenue Avenue, Osato Junction, Benin City", TypeLetter)
	want := "24 Avenue Avenue,\nOsato Junction,\nBenin City."
	if got != want {
		t.Errorf("FormatAddress letter = %q, want %q", got, want)
	}
}

func TestFormatAddressLetterDropsEmptySegments(t *testing.T) {
	got := FormatAddress("24 Avenue Avenue,, Benin City,", TypeLetter)
	want := "24 Avenue Avenue,\nBenin City."
	if got != want {
		t.Errorf("FormatAddress = %q, want %q", got, want)
	}
}

func TestFormatAddressLetterKeepsExistingPeriod(t *testing.T) {
	got := FormatAddress("24 Avenue Avenue, Benin City.", TypeLetter)
	if !strings.HasSuffix(got, "Benin City.") || strings.HasSuffix(got, "..") {
		t.Errorf("final period should not double up: %q", got)
	}
}

func TestFormatAddressAffidavit(t *testing.T) {
	got := FormatAddress("24 Avenue Avenue, Benin City..", TypeAffidavit)
	if got != "24 Avenue Avenue, Benin City" {
		t.Errorf("affidavit address should strip trailing periods, got %q", got)
	}
}

func TestFormatAddressOtherTypePassesThrough(t *testing.T) {
	value := "24 Avenue Avenue, Benin City."
	if got := FormatAddress(value, "certificate"); got != value {
		t.Errorf("unknown type should pass through, got %q", got)
	}
}

func TestApplyCasing(t *testing.T) {
	cases := []struct {
		casing string
		want   string
	}{
		{"upper", "JOE DOE"},
		{"lower", "joe doe"},
		{"title", "Joe Doe"},
		{"none", "joe Doe"},
		{"", "joe Doe"},
	}
	for _, tc := range cases {
		if got := ApplyCasing("joe Doe", tc.casing); got != tc.want {
			t.Errorf("ApplyCasing(%q) = %q, want %q", tc.casing, got, tc.want)
		}
	}
}

func requiredView(name, display string) fieldset.View {
	return fieldset.View{
		Name:        name,
		DisplayName: display,
		IsRequired:  true,
		Members:     []models.PlaceholderField{{Name: name}},
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	views := []fieldset.View{
		requiredView("name", "Full Name"),
		requiredView("date", "Date"),
	}

	err := Validate(views, map[string]string{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(vErr.Violations), vErr.Violations)
	}
	if vErr.Violations[0] != "Full Name is required" {
		t.Errorf("unexpected violation: %q", vErr.Violations[0])
	}
}

func TestValidatePattern(t *testing.T) {
	view := requiredView("mat_no", "Matric Number")
	view.Members[0].ValidationPattern = `^[A-Z]{3}\d{7}$`

	if err := Validate([]fieldset.View{view}, map[string]string{"mat_no": "ENG2204223"}); err != nil {
		t.Errorf("valid value rejected: %v", err)
	}

	err := Validate([]fieldset.View{view}, map[string]string{"mat_no": "nope"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Violations[0] != "Matric Number is invalid" {
		t.Errorf("unexpected violation: %q", vErr.Violations[0])
	}
}

func TestValidateOptionalBlankSkipsPattern(t *testing.T) {
	view := fieldset.View{
		Name:        "extra",
		DisplayName: "Extra",
		Members: []models.PlaceholderField{
			{Name: "extra", ValidationPattern: `^\d+$`},
		},
	}
	if err := Validate([]fieldset.View{view}, map[string]string{}); err != nil {
		t.Errorf("blank optional value should not be validated: %v", err)
	}
}

func TestValidateBadPatternIgnored(t *testing.T) {
	view := requiredView("x", "X")
	view.Members[0].ValidationPattern = `([` // does not compile
	if err := Validate([]fieldset.View{view}, map[string]string{"x": "anything"}); err != nil {
		t.Errorf("uncompilable pattern should be skipped: %v", err)
	}
}
