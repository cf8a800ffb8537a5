package store

import (
	"fmt"
	"sort"
	"strings"
)

// Row is a single result row. Joined display fields appear under their
// relation alias next to the base columns.
type Row map[string]any

// Page is one page of list results plus the total match count.
type Page struct {
	Rows  []Row `json:"rows"`
	Total int   `json:"total"`
	Page  int   `json:"page"`
}

// Sort describes the requested ordering.
type Sort struct {
	Field     string `json:"field"`
	Ascending bool   `json:"ascending"`
}

// Relation declares a foreign-key display join: the joined table's display
// field is returned on each row under Alias, and Alias may be listed as a
// search field.
type Relation struct {
	Column   string // local FK column, e.g. "country_id"
	RefTable string // referenced table, e.g. "countries"
	Display  string // display column on the referenced table
	Alias    string // key the joined value appears under, e.g. "country_name"
}

// Table is the per-call-site configuration of the generic adapter.
type Table struct {
	Name         string
	Columns      []string // base columns, must include "id"
	SearchFields []string // base columns or relation aliases
	DefaultSort  Sort
	PageSize     int
	Relations    []Relation
}

// ListParams are the inputs of a list query. Page is 1-based.
type ListParams struct {
	Search  string         `json:"search"`
	Sort    Sort           `json:"sort"`
	Page    int            `json:"page"`
	Filters map[string]any `json:"filters"`
}

// relationByAlias resolves a search or sort field that names a join alias.
func (t Table) relationByAlias(field string) (Relation, bool) {
	for _, r := range t.Relations {
		if r.Alias == field {
			return r, true
		}
	}
	return Relation{}, false
}

func (t Table) hasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// CacheKey builds the canonical cache key for a list query. It starts with
// the table name so Invalidate(table) catches every page and filter
// combination.
func (t Table) CacheKey(p ListParams) string {
	var b strings.Builder
	b.WriteString(t.Name)
	fmt.Fprintf(&b, "|ps=%d|q=%s|sort=%s,%v|page=%d", t.PageSize, p.Search, p.Sort.Field, p.Sort.Ascending, p.Page)
	if len(p.Filters) > 0 {
		keys := make([]string, 0, len(p.Filters))
		for k := range p.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "|f:%s=%v", k, p.Filters[k])
		}
	}
	return b.String()
}
