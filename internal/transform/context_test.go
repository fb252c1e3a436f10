package transform

import (
	"strings"
	"testing"
	"time"

	"docugen/internal/infer"
	"docugen/internal/models"
)

func storedField(name, fieldType, defaultValue string, sortOrder int) models.PlaceholderField {
	return models.PlaceholderField{
		Name:         name,
		Type:         fieldType,
		DefaultValue: defaultValue,
		SortOrder:    sortOrder,
	}
}

func TestBuildValuesKeyedByBase(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("name", infer.TypeText, "Joe Doe", 0),
		storedField("name_instance_2", infer.TypeText, "Joe Doe", 1),
	}

	values := BuildValues(TypeLetter, fields, map[string]string{"name": "Ada Obi"})
	if len(values) != 1 {
		t.Fatalf("expected 1 entry keyed by base, got %d", len(values))
	}
	if values["name"] != "Ada Obi" {
		t.Errorf("values[name] = %q", values["name"])
	}
}

func TestBuildValuesFirstInstanceWins(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("name_instance_2", infer.TypeText, "second", 5),
		storedField("name", infer.TypeText, "first", 1),
	}

	// No input given: the lowest sort order field decides the value.
	values := BuildValues(TypeLetter, fields, map[string]string{})
	if values["name"] != "first" {
		t.Errorf("expected first occurrence default, got %q", values["name"])
	}
}

func TestBuildValuesMissingInputFallsBackToDefault(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("city", infer.TypeText, "Benin City", 0),
	}
	values := BuildValues(TypeLetter, fields, map[string]string{})
	if values["city"] != "Benin City" {
		t.Errorf("expected stored default, got %q", values["city"])
	}
}

func TestBuildValuesDateTransform(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("date", infer.TypeDate, "", 0),
	}
	values := BuildValues(TypeAffidavit, fields, map[string]string{"date": "2025-09-22"})
	if values["date"] != "22nd of September, 2025" {
		t.Errorf("date not transformed: %q", values["date"])
	}
}

func TestBuildValuesEmptyDateAutoFills(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("date", infer.TypeDate, "", 0),
	}
	values := BuildValues(TypeLetter, fields, map[string]string{})
	year := time.Now().In(westAfricaTime).Format("2006")
	if !strings.HasSuffix(values["date"], ", "+year) {
		t.Errorf("empty date should auto-fill, got %q", values["date"])
	}
}

func TestBuildValuesAddressTransform(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("sender_address", infer.TypeText, "", 0),
	}
	values := BuildValues(TypeLetter, fields, map[string]string{
		"sender_address": "24 Avenue Avenue, Benin City",
	})
	if values["sender_address"] != "24 Avenue Avenue,\nBenin City." {
		t.Errorf("address not reflowed: %q", values["sender_address"])
	}
}

func TestBuildValuesCasing(t *testing.T) {
	f := storedField("name", infer.TypeText, "", 0)
	f.Casing = "upper"
	values := BuildValues(TypeLetter, []models.PlaceholderField{f}, map[string]string{"name": "ada obi"})
	if values["name"] != "ADA OBI" {
		t.Errorf("casing not applied: %q", values["name"])
	}
}

func TestBuildValuesInstanceInputFallsBackToBase(t *testing.T) {
	fields := []models.PlaceholderField{
		storedField("name_instance_2", infer.TypeText, "default", 0),
	}
	values := BuildValues(TypeLetter, fields, map[string]string{"name": "Ada Obi"})
	if values["name"] != "Ada Obi" {
		t.Errorf("instance field should fall back to base input, got %q", values["name"])
	}
}
