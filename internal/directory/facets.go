package directory

import "sort"

// Facets lists the distinct filter values present in a dataset.
type Facets struct {
	Categories []string `json:"categories"`
	Countries  []string `json:"countries"`
	Cities     []string `json:"cities"`
}

// BuildFacets collects the non-empty categories, countries and cities of
// records, each sorted with the same collation used for sorting records.
func BuildFacets(records []Record) Facets {
	return Facets{
		Categories: distinct(records, func(r Record) string { return r.Category }),
		Countries:  distinct(records, func(r Record) string { return r.Country }),
		Cities:     distinct(records, func(r Record) string { return r.City }),
	}
}

func distinct(records []Record, field func(Record) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		return c.CompareString(out[i], out[j]) < 0
	})
	return out
}
