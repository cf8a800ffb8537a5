package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statesTable() Table {
	return Table{
		Name:         "states",
		Columns:      []string{"id", "name", "country_id", "created_at", "updated_at"},
		SearchFields: []string{"name", "country_name"},
		DefaultSort:  Sort{Field: "name", Ascending: true},
		PageSize:     10,
		Relations: []Relation{
			{Column: "country_id", RefTable: "countries", Display: "name", Alias: "country_name"},
		},
	}
}

func TestCountSQLPlain(t *testing.T) {
	sql, args, err := statesTable().CountSQL(ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM states t LEFT JOIN countries r0 ON r0.id = t.country_id", sql)
	assert.Empty(t, args)
}

func TestCountSQLWithFilter(t *testing.T) {
	sql, args, err := statesTable().CountSQL(ListParams{Filters: map[string]any{"country_id": 3}})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE t.country_id = $1")
	assert.Equal(t, []any{3}, args)
}

func TestCountSQLUnknownFilterColumn(t *testing.T) {
	_, _, err := statesTable().CountSQL(ListParams{Filters: map[string]any{"nope": 1}})
	assert.Error(t, err)
}

func TestWhereClauseSearchCoversVariantsAndFields(t *testing.T) {
	sql, args, err := statesTable().CountSQL(ListParams{Search: "cordoba"})
	require.NoError(t, err)

	// 2 search fields x len(variants) ILIKE predicates, OR'd together.
	variants := SearchVariants("cordoba")
	assert.Len(t, args, 2*len(variants))
	assert.Contains(t, sql, "t.name ILIKE $1")
	assert.Contains(t, sql, "r0.name ILIKE")
	assert.Contains(t, sql, " OR ")
	assert.Equal(t, "%cordoba%", args[0])
}

func TestPageSQLPlaceholders(t *testing.T) {
	tbl := statesTable()
	sql, args, err := tbl.PageSQL(ListParams{Page: 3, Filters: map[string]any{"country_id": 7}})
	require.NoError(t, err)

	assert.Contains(t, sql, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{7, 10, 20}, args)
	assert.Contains(t, sql, "SELECT t.id, t.name, t.country_id, t.created_at, t.updated_at, r0.name AS country_name FROM states t")
}

func TestPageSQLDefaultsToFirstPage(t *testing.T) {
	_, args, err := statesTable().PageSQL(ListParams{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, []any{10, 0}, args)
}

func TestOrderClauseFallsBackToDefaultSort(t *testing.T) {
	tbl := statesTable()

	sql, _, err := tbl.PageSQL(ListParams{Sort: Sort{Field: "bogus", Ascending: false}})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY t.name ASC")

	sql, _, err = tbl.PageSQL(ListParams{Sort: Sort{Field: "country_name", Ascending: false}})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY r0.name DESC")
}

func TestInsertSQLSortedAndProtected(t *testing.T) {
	tbl := statesTable()

	sql, args, err := tbl.InsertSQL(Row{"name": "Salta", "country_id": 1})
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO states (country_id, name) VALUES ($1, $2) RETURNING id, name, country_id, created_at, updated_at",
		sql)
	assert.Equal(t, []any{1, "Salta"}, args)

	_, _, err = tbl.InsertSQL(Row{"id": 9, "name": "Salta"})
	assert.Error(t, err, "id must not be settable")

	_, _, err = tbl.InsertSQL(Row{"bogus": 1})
	assert.Error(t, err)

	_, _, err = tbl.InsertSQL(Row{})
	assert.Error(t, err)
}

func TestUpdateSQL(t *testing.T) {
	tbl := statesTable()

	sql, args, err := tbl.UpdateSQL(4, Row{"name": "Jujuy"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE states SET name = $1, updated_at = NOW() WHERE id = $2", sql)
	assert.Equal(t, []any{"Jujuy", 4}, args)

	_, _, err = tbl.UpdateSQL(4, Row{"created_at": "now"})
	assert.Error(t, err)
}

func TestUpdateSQLWithoutUpdatedAtColumn(t *testing.T) {
	tbl := Table{Name: "step_ways", Columns: []string{"id", "name", "position"}}
	sql, _, err := tbl.UpdateSQL(1, Row{"position": 2})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE step_ways SET position = $1 WHERE id = $2", sql)
}

func TestDeleteSQL(t *testing.T) {
	sql, args := statesTable().DeleteSQL(11)
	assert.Equal(t, "DELETE FROM states WHERE id = $1", sql)
	assert.Equal(t, []any{11}, args)
}

func TestCacheKey(t *testing.T) {
	tbl := statesTable()
	key := tbl.CacheKey(ListParams{Search: "a", Page: 2, Filters: map[string]any{"country_id": 1}})

	assert.True(t, len(key) > len(tbl.Name))
	assert.Equal(t, tbl.Name, key[:len(tbl.Name)], "key must start with the table name so prefix invalidation works")

	// Filter order must not change the key.
	other := tbl.CacheKey(ListParams{Search: "a", Page: 2, Filters: map[string]any{"country_id": 1}})
	assert.Equal(t, key, other)

	assert.NotEqual(t, key, tbl.CacheKey(ListParams{Search: "a", Page: 3, Filters: map[string]any{"country_id": 1}}))
}
