package services

import (
	"strings"
	"testing"

	"docugen/internal/docx"
	"docugen/internal/infer"
)

func occurrence(name string, paraIdx int) docx.Occurrence {
	return docx.Occurrence{Name: name, ParagraphIndex: paraIdx}
}

func TestBuildFieldsInstanceNaming(t *testing.T) {
	fields := buildFields("tpl-1", []docx.Occurrence{
		occurrence("date", 0),
		occurrence("name", 1),
		occurrence("date", 2),
		occurrence("date", 3),
	})

	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}

	wantNames := []string{"date", "name", "date_instance_2", "date_instance_3"}
	for i, want := range wantNames {
		if fields[i].Name != want {
			t.Errorf("field %d: expected name %q, got %q", i, want, fields[i].Name)
		}
	}
	if fields[2].DisplayName != "Date (Instance 2)" {
		t.Errorf("unexpected instance display name: %q", fields[2].DisplayName)
	}
	if fields[0].DisplayName != "Date" {
		t.Errorf("first occurrence keeps the plain display name, got %q", fields[0].DisplayName)
	}
}

func TestBuildFieldsMetadataInference(t *testing.T) {
	fields := buildFields("tpl-1", []docx.Occurrence{
		occurrence("gender", 0),
		occurrence("issue_date", 1),
	})

	if fields[0].Type != infer.TypeOption {
		t.Errorf("gender should infer option type, got %q", fields[0].Type)
	}
	if !strings.Contains(fields[0].Options, "Male") {
		t.Errorf("gender options missing: %q", fields[0].Options)
	}
	if fields[1].Type != infer.TypeDate {
		t.Errorf("issue_date should infer date type, got %q", fields[1].Type)
	}
	if fields[1].DefaultValue != "" {
		t.Errorf("date default must be empty for auto-fill, got %q", fields[1].DefaultValue)
	}
}

func TestBuildFieldsDefaults(t *testing.T) {
	fields := buildFields("tpl-1", []docx.Occurrence{occurrence("student_name", 0)})
	f := fields[0]
	if !f.IsRequired {
		t.Error("extracted fields start out required")
	}
	if f.Casing != "none" {
		t.Errorf("expected casing none, got %q", f.Casing)
	}
	if f.SortOrder != 0 {
		t.Errorf("expected sort order 0, got %d", f.SortOrder)
	}
	if f.TemplateID != "tpl-1" {
		t.Errorf("template id not propagated: %q", f.TemplateID)
	}
}

func TestBuildFieldsFormattingSnapshot(t *testing.T) {
	occ := docx.Occurrence{
		Name:           "title",
		ParagraphIndex: 2,
		RunIndex:       1,
		Alignment:      "center",
		Formatting: docx.Formatting{
			Bold:      true,
			Underline: true,
			Font:      "Georgia",
			Size:      14,
		},
	}
	fields := buildFields("tpl-1", []docx.Occurrence{occ})
	f := fields[0]
	if !f.Bold || f.Italic || !f.Underline {
		t.Errorf("style flags not captured: %+v", f)
	}
	if f.FontFamily != "Georgia" || f.FontSize != 14 {
		t.Errorf("font snapshot not captured: %q %d", f.FontFamily, f.FontSize)
	}
	if f.Alignment != "center" || f.ParagraphIndex != 2 || f.RunIndex != 1 {
		t.Errorf("position not captured: %+v", f)
	}
}

func TestSuggestedFilename(t *testing.T) {
	got := suggestedFilename("Ada Obi", "Leave of Absence", FormatDocx)
	if !strings.HasPrefix(got, "Ada_Obi_Leave_of_Absence_") {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.HasSuffix(got, ".docx") {
		t.Errorf("expected .docx extension: %q", got)
	}

	got = suggestedFilename("", "T", FormatPDF)
	if !strings.HasPrefix(got, "document_T_") || !strings.HasSuffix(got, ".pdf") {
		t.Errorf("unexpected fallback filename: %q", got)
	}
}
