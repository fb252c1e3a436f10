package transform

import (
	"sort"
	"strings"

	"docugen/internal/fieldset"
	"docugen/internal/infer"
	"docugen/internal/models"
)

// BuildValues resolves and transforms the submitted value for every stored
// field and returns the substitution map keyed by base name. Lookup falls
// back from the instance-qualified key to the base key, then to the stored
// default. Because repeated markers in a template all carry the base name,
// the first instance of each base decides the value.
func BuildValues(templateType string, fields []models.PlaceholderField, inputs map[string]string) map[string]string {
	sorted := make([]models.PlaceholderField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	values := make(map[string]string, len(sorted))
	for _, f := range sorted {
		key := fieldset.ParseKey(f.Name)
		if _, done := values[key.Base]; done {
			continue
		}

		value, ok := inputs[f.Name]
		if !ok && key.Instance > 1 {
			value, ok = inputs[key.Base]
		}
		if !ok {
			value = f.DefaultValue
		}

		switch {
		case f.Type == infer.TypeDate:
			value = FormatDate(value, templateType)
		case strings.Contains(strings.ToLower(f.Name), "address"):
			value = FormatAddress(value, templateType)
		}
		values[key.Base] = ApplyCasing(value, f.Casing)
	}

	return values
}
