package fieldset

import (
	"reflect"
	"testing"

	"docugen/internal/models"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		name string
		want Key
	}{
		{"date", Key{Base: "date", Instance: 1}},
		{"date_instance_2", Key{Base: "date", Instance: 2}},
		{"student_name_instance_10", Key{Base: "student_name", Instance: 10}},
		{"odd_instance_", Key{Base: "odd_instance_", Instance: 1}},
		{"odd_instance_x", Key{Base: "odd_instance_x", Instance: 1}},
	}
	for _, tc := range cases {
		if got := ParseKey(tc.name); got != tc.want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestKeyString(t *testing.T) {
	if got := (Key{Base: "date", Instance: 1}).String(); got != "date" {
		t.Errorf("instance 1 should render bare, got %q", got)
	}
	if got := (Key{Base: "date", Instance: 3}).String(); got != "date_instance_3" {
		t.Errorf("unexpected suffixed form: %q", got)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	for _, name := range []string{"date", "date_instance_2", "full_name_instance_7"} {
		if got := ParseKey(name).String(); got != name {
			t.Errorf("round trip of %q produced %q", name, got)
		}
	}
}

func field(name string, sortOrder int, required bool) models.PlaceholderField {
	return models.PlaceholderField{
		Name:        name,
		DisplayName: name + " label",
		Type:        "text",
		IsRequired:  required,
		SortOrder:   sortOrder,
	}
}

func TestMergeCollapsesInstances(t *testing.T) {
	fields := []models.PlaceholderField{
		field("date", 0, true),
		field("name", 1, true),
		field("date_instance_2", 2, false),
	}

	views := Merge(fields)
	if len(views) != 2 {
		t.Fatalf("expected 2 merged views, got %d", len(views))
	}
	if views[0].Name != "date" || views[1].Name != "name" {
		t.Errorf("unexpected view order: %q, %q", views[0].Name, views[1].Name)
	}
	if len(views[0].Members) != 2 {
		t.Errorf("date group should have 2 members, got %d", len(views[0].Members))
	}
}

func TestMergeRepresentativeIsLowestSortOrder(t *testing.T) {
	later := field("date_instance_2", 5, false)
	later.DisplayName = "Date (Instance 2)"
	first := field("date", 1, false)
	first.DisplayName = "Date"

	views := Merge([]models.PlaceholderField{later, first})
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].DisplayName != "Date" {
		t.Errorf("representative should be the first occurrence, got %q", views[0].DisplayName)
	}
	if views[0].SortOrder != 1 {
		t.Errorf("view sort order should be group minimum, got %d", views[0].SortOrder)
	}
}

func TestMergeRequiredIfAnyRequired(t *testing.T) {
	views := Merge([]models.PlaceholderField{
		field("date", 0, false),
		field("date_instance_2", 1, true),
	})
	if !views[0].IsRequired {
		t.Error("group with any required member must be required")
	}
}

func TestMergeOrderedByMinimumSortOrder(t *testing.T) {
	views := Merge([]models.PlaceholderField{
		field("b", 3, false),
		field("a", 2, false),
		field("b_instance_2", 0, false),
	})
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	// b's minimum sort order is 0 via its second instance.
	if views[0].Name != "b" || views[1].Name != "a" {
		t.Errorf("unexpected order: %q, %q", views[0].Name, views[1].Name)
	}
}

func TestMergeDecodesOptions(t *testing.T) {
	f := field("gender", 0, true)
	f.Options = `["Male","Female"]`
	views := Merge([]models.PlaceholderField{f})
	if !reflect.DeepEqual(views[0].Options, []string{"Male", "Female"}) {
		t.Errorf("unexpected options: %v", views[0].Options)
	}

	f.Options = "not json"
	views = Merge([]models.PlaceholderField{f})
	if len(views[0].Options) != 0 {
		t.Errorf("invalid options JSON should decode to empty, got %v", views[0].Options)
	}
}

func TestMergeAcrossTemplates(t *testing.T) {
	a := field("name", 0, true)
	a.TemplateID = "t1"
	b := field("name", 0, true)
	b.TemplateID = "t2"
	c := field("date", 1, true)
	c.TemplateID = "t2"

	views := Merge([]models.PlaceholderField{a, b, c})
	if len(views) != 2 {
		t.Fatalf("shared field across templates should merge, got %d views", len(views))
	}
	if len(views[0].Members) != 2 {
		t.Errorf("name group should span both templates, got %d members", len(views[0].Members))
	}
}
