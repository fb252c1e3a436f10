// Package fieldset groups stored placeholder fields into the canonical,
// user-facing inputs presented on generation forms. Repeated occurrences of
// one logical field, within a template or across a batch selection, collapse
// into a single input keyed by the base name.
package fieldset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"docugen/internal/models"
)

// instanceMarker separates a base name from its occurrence number in the
// stored column form ("name", "name_instance_2", ...).
const instanceMarker = "_instance_"

// Key identifies one stored placeholder field as (base name, instance
// number). The first occurrence is instance 1 and is stored without a
// suffix.
type Key struct {
	Base     string
	Instance int
}

// ParseKey recovers the structured key from a stored field name.
func ParseKey(name string) Key {
	idx := strings.LastIndex(name, instanceMarker)
	if idx < 0 {
		return Key{Base: name, Instance: 1}
	}
	n, err := strconv.Atoi(name[idx+len(instanceMarker):])
	if err != nil || n < 2 {
		return Key{Base: name, Instance: 1}
	}
	return Key{Base: name[:idx], Instance: n}
}

// String renders the stored column form of the key.
func (k Key) String() string {
	if k.Instance <= 1 {
		return k.Base
	}
	return fmt.Sprintf("%s%s%d", k.Base, instanceMarker, k.Instance)
}

// View is a read-only presentation of one merged input. It is built fresh
// from the stored records; the records themselves are never renamed or
// otherwise mutated for display.
type View struct {
	Name         string   `json:"name"` // base name, the form input key
	DisplayName  string   `json:"display_name"`
	Type         string   `json:"type"`
	IsRequired   bool     `json:"is_required"`
	Options      []string `json:"options"`
	HelpText     string   `json:"help_text"`
	Casing       string   `json:"casing"`
	DefaultValue string   `json:"default_value"`
	SortOrder    int      `json:"sort_order"`

	// Members is the full group backing this input, needed for validation.
	Members []models.PlaceholderField `json:"-"`
}

// Merge collapses fields sharing a base name, possibly spanning several
// templates, into one view per base name. The representative is the group
// member with the lowest sort order, and the output is ordered by each
// group's minimum sort order.
func Merge(fields []models.PlaceholderField) []View {
	groups := make(map[string][]models.PlaceholderField)
	minOrder := make(map[string]int)
	var order []string

	for _, f := range fields {
		base := ParseKey(f.Name).Base
		if _, seen := groups[base]; !seen {
			order = append(order, base)
			minOrder[base] = f.SortOrder
		} else if f.SortOrder < minOrder[base] {
			minOrder[base] = f.SortOrder
		}
		groups[base] = append(groups[base], f)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return minOrder[order[i]] < minOrder[order[j]]
	})

	views := make([]View, 0, len(order))
	for _, base := range order {
		members := groups[base]
		rep := members[0]
		for _, f := range members[1:] {
			if f.SortOrder < rep.SortOrder {
				rep = f
			}
		}

		views = append(views, View{
			Name:         base,
			DisplayName:  displayName(rep, base),
			Type:         rep.Type,
			IsRequired:   anyRequired(members),
			Options:      decodeOptions(rep.Options),
			HelpText:     rep.HelpText,
			Casing:       rep.Casing,
			DefaultValue: rep.DefaultValue,
			SortOrder:    minOrder[base],
			Members:      members,
		})
	}

	return views
}

func displayName(rep models.PlaceholderField, base string) string {
	if rep.DisplayName != "" {
		return rep.DisplayName
	}
	return base
}

func anyRequired(members []models.PlaceholderField) bool {
	for _, f := range members {
		if f.IsRequired {
			return true
		}
	}
	return false
}

func decodeOptions(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var opts []string
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return []string{}
	}
	return opts
}
