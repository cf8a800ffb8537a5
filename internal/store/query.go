package store

import (
	"fmt"
	"sort"
	"strings"
)

// Columns the adapter owns and refuses to take from payloads.
var protectedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

func (t Table) selectClause() string {
	parts := make([]string, 0, len(t.Columns)+len(t.Relations))
	for _, c := range t.Columns {
		parts = append(parts, "t."+c)
	}
	for i, r := range t.Relations {
		parts = append(parts, fmt.Sprintf("r%d.%s AS %s", i, r.Display, r.Alias))
	}
	return strings.Join(parts, ", ")
}

func (t Table) joinClause() string {
	var b strings.Builder
	for i, r := range t.Relations {
		fmt.Fprintf(&b, " LEFT JOIN %s r%d ON r%d.id = t.%s", r.RefTable, i, i, r.Column)
	}
	return b.String()
}

// searchExpr resolves a declared search field to the SQL expression it
// matches against: the base column, or the joined display column when the
// field is a relation alias.
func (t Table) searchExpr(field string) (string, bool) {
	if t.hasColumn(field) {
		return "t." + field, true
	}
	for i, r := range t.Relations {
		if r.Alias == field {
			return fmt.Sprintf("r%d.%s", i, r.Display), true
		}
	}
	return "", false
}

// whereClause builds the WHERE fragment: exact-match filters ANDed together,
// plus (when a search term is given) an OR group of ILIKE predicates over
// every declared search field and every accent variant of the term.
func (t Table) whereClause(p ListParams) (string, []any, error) {
	var conds []string
	var args []any

	filterKeys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		filterKeys = append(filterKeys, k)
	}
	sort.Strings(filterKeys)
	for _, k := range filterKeys {
		if !t.hasColumn(k) {
			return "", nil, fmt.Errorf("unknown filter column %q on table %s", k, t.Name)
		}
		args = append(args, p.Filters[k])
		conds = append(conds, fmt.Sprintf("t.%s = $%d", k, len(args)))
	}

	if search := strings.TrimSpace(p.Search); search != "" && len(t.SearchFields) > 0 {
		variants := SearchVariants(search)
		var likes []string
		for _, field := range t.SearchFields {
			expr, ok := t.searchExpr(field)
			if !ok {
				return "", nil, fmt.Errorf("unknown search field %q on table %s", field, t.Name)
			}
			for _, v := range variants {
				args = append(args, "%"+v+"%")
				likes = append(likes, fmt.Sprintf("%s ILIKE $%d", expr, len(args)))
			}
		}
		conds = append(conds, "("+strings.Join(likes, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (t Table) orderClause(s Sort) string {
	field := s.Field
	if field == "" {
		field = t.DefaultSort.Field
		s.Ascending = t.DefaultSort.Ascending
	}
	expr, ok := t.searchExpr(field)
	if !ok {
		expr, _ = t.searchExpr(t.DefaultSort.Field)
		s.Ascending = t.DefaultSort.Ascending
	}
	dir := "DESC"
	if s.Ascending {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", expr, dir)
}

// CountSQL builds the total-count statement for a list query.
func (t Table) CountSQL(p ListParams) (string, []any, error) {
	where, args, err := t.whereClause(p)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("SELECT count(*) FROM %s t%s%s", t.Name, t.joinClause(), where)
	return sql, args, nil
}

// PageSQL builds the page statement for a list query. Page is 1-based.
func (t Table) PageSQL(p ListParams) (string, []any, error) {
	where, args, err := t.whereClause(p)
	if err != nil {
		return "", nil, err
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	args = append(args, t.PageSize, (page-1)*t.PageSize)
	sql := fmt.Sprintf("SELECT %s FROM %s t%s%s%s LIMIT $%d OFFSET $%d",
		t.selectClause(), t.Name, t.joinClause(), where, t.orderClause(p.Sort),
		len(args)-1, len(args))
	return sql, args, nil
}

// InsertSQL builds the INSERT for a create payload. Keys are sorted so the
// statement is deterministic; identity and timestamp columns are rejected.
func (t Table) InsertSQL(payload Row) (string, []any, error) {
	if len(payload) == 0 {
		return "", nil, fmt.Errorf("empty payload for table %s", t.Name)
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if protectedColumns[k] {
			return "", nil, fmt.Errorf("column %q cannot be set on table %s", k, t.Name)
		}
		if !t.hasColumn(k) {
			return "", nil, fmt.Errorf("unknown column %q on table %s", k, t.Name)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, len(keys))
	places := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		cols[i] = k
		places[i] = fmt.Sprintf("$%d", i+1)
		args[i] = payload[k]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name, strings.Join(cols, ", "), strings.Join(places, ", "), strings.Join(t.Columns, ", "))
	return sql, args, nil
}

// UpdateSQL builds the UPDATE for a partial patch scoped by primary key.
func (t Table) UpdateSQL(id any, patch Row) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("empty patch for table %s", t.Name)
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		if protectedColumns[k] {
			return "", nil, fmt.Errorf("column %q cannot be patched on table %s", k, t.Name)
		}
		if !t.hasColumn(k) {
			return "", nil, fmt.Errorf("unknown column %q on table %s", k, t.Name)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		args = append(args, patch[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	if t.hasColumn("updated_at") {
		sets = append(sets, "updated_at = NOW()")
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", t.Name, strings.Join(sets, ", "), len(args))
	return sql, args, nil
}

// DeleteSQL builds the DELETE scoped by primary key.
func (t Table) DeleteSQL(id any) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Name), []any{id}
}
