package workflows

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/caminoadmin/comunidades-go/internal/store"
)

// captureRows reads the rows a destructive step is about to remove, so the
// step's compensation can put them back verbatim (ids included).
func captureRows(ctx context.Context, db store.Querier, table, where string, args ...any) ([]store.Row, error) {
	sql := fmt.Sprintf("SELECT * FROM %s WHERE %s", table, where)
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s rows: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []store.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		r := store.Row{}
		for i, fd := range fields {
			r[fd.Name] = values[i]
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// reinsertRows restores previously captured rows.
func reinsertRows(ctx context.Context, db store.Querier, table string, rows []store.Row) error {
	for _, r := range rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		places := make([]string, len(keys))
		args := make([]any, len(keys))
		for i, k := range keys {
			places[i] = fmt.Sprintf("$%d", i+1)
			args[i] = r[k]
		}
		sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(keys, ", "), strings.Join(places, ", "))
		if _, err := db.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to restore %s row: %w", table, err)
		}
	}
	return nil
}
