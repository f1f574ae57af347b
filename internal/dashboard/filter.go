package dashboard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/deusflow/pronews/internal/news"
)

// FilterState is the user's selection for one pass.
type FilterState struct {
	Categories []news.Category `json:"categories"`
	UrgentOnly bool            `json:"urgent_only"`
}

// DefaultFilter selects every keyword-backed category and all urgencies.
func DefaultFilter(t *news.Taxonomy) FilterState {
	return FilterState{Categories: t.Categories()}
}

// ParseFilter builds a FilterState from category names and the urgent flag.
// No names means the default selection. Unknown names are an error.
func ParseFilter(t *news.Taxonomy, names []string, urgentOnly bool) (FilterState, error) {
	f := FilterState{UrgentOnly: urgentOnly}

	seen := make(map[news.Category]bool)
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		c := news.Category(name)
		if !t.Has(c) {
			return FilterState{}, fmt.Errorf("unknown category %q", name)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		f.Categories = append(f.Categories, c)
	}

	if len(f.Categories) == 0 {
		f.Categories = t.Categories()
	}
	return f, nil
}

// FilterFromQuery decodes ?category=...&category=...&urgent=1.
func FilterFromQuery(t *news.Taxonomy, q url.Values) (FilterState, error) {
	return ParseFilter(t, q["category"], truthy(q.Get("urgent")))
}

// Query encodes the filter back into the form FilterFromQuery reads.
func (f FilterState) Query() url.Values {
	q := url.Values{}
	for _, c := range f.Categories {
		q.Add("category", string(c))
	}
	if f.UrgentOnly {
		q.Set("urgent", "1")
	}
	return q
}

// Includes reports whether c is selected.
func (f FilterState) Includes(c news.Category) bool {
	return f.set()[c]
}

func (f FilterState) set() map[news.Category]bool {
	m := make(map[news.Category]bool, len(f.Categories))
	for _, c := range f.Categories {
		m[c] = true
	}
	return m
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
