package workflows

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoadmin/comunidades-go/internal/logger"
	"github.com/caminoadmin/comunidades-go/internal/store"
)

// idRows serves integer ids through pgx.Rows for Scan-based reads.
type idRows struct {
	ids []int
	idx int
}

func (r *idRows) Close()                                       {}
func (r *idRows) Err() error                                   { return nil }
func (r *idRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *idRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *idRows) Next() bool                                   { r.idx++; return r.idx <= len(r.ids) }
func (r *idRows) Values() ([]any, error)                       { return nil, nil }
func (r *idRows) RawValues() [][]byte                          { return nil }
func (r *idRows) Conn() *pgx.Conn                              { return nil }

func (r *idRows) Scan(dest ...any) error {
	if p, ok := dest[0].(*int); ok {
		*p = r.ids[r.idx-1]
	}
	return nil
}

// valueRow answers a single QueryRow scan with fixed values.
type valueRow struct {
	vals []any
	err  error
}

func (r valueRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *bool:
			*p = r.vals[i].(bool)
		case *int:
			*p = r.vals[i].(int)
		}
	}
	return nil
}

// fakeQuerier scripts the three store.Querier calls and records every Exec.
type fakeQuerier struct {
	queryIDs    []int
	rowVals     []any
	rowErr      error
	affectedFor func(sql string) int64
	execErrFor  func(sql string) error
	execSQL     []string
	execArgs    [][]any
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &idRows{ids: f.queryIDs}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	return valueRow{vals: f.rowVals, err: f.rowErr}
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	if f.execErrFor != nil {
		if err := f.execErrFor(sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	affected := int64(1)
	if f.affectedFor != nil {
		affected = f.affectedFor(sql)
	}
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", affected)), nil
}

func TestMergeReportsProcedureCounts(t *testing.T) {
	db := &fakeQuerier{rowVals: []any{true, 5, 3, 12}}
	cache := store.NewMemoryCache()
	cache.Set("communities|page=1", store.Page{})
	cache.Set("brothers|page=1", store.Page{})

	w := NewCommunityWorkflows(db, cache, logger.NewNop())
	res, err := w.Merge(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 5, res.BrothersMoved)
	assert.Equal(t, 3, res.MembersMoved)
	assert.Equal(t, 12, res.RemovedCommunityNumber)
	assert.Equal(t, 0, cache.Len(), "merge drops every cached page of the touched tables")
}

func TestMergeRejectsSelfMerge(t *testing.T) {
	w := NewCommunityWorkflows(&fakeQuerier{}, store.NewMemoryCache(), logger.NewNop())
	_, err := w.Merge(context.Background(), 4, 4)
	assert.Error(t, err)
}

func TestDeleteCommunityNotFound(t *testing.T) {
	db := &fakeQuerier{rowVals: []any{false}}
	w := NewCommunityWorkflows(db, store.NewMemoryCache(), logger.NewNop())

	err := w.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCommunityNotFound)
	assert.Empty(t, db.execSQL, "nothing may be deleted for a missing community")
}

func TestDeleteCommunityRemovesDependentsBeforeCommunity(t *testing.T) {
	db := &fakeQuerier{rowVals: []any{true}}
	w := NewCommunityWorkflows(db, store.NewMemoryCache(), logger.NewNop())

	require.NoError(t, w.Delete(context.Background(), 7))

	var deletes []string
	for _, sql := range db.execSQL {
		if strings.HasPrefix(sql, "DELETE FROM ") {
			table := strings.Fields(strings.TrimPrefix(sql, "DELETE FROM "))[0]
			deletes = append(deletes, table)
		}
	}
	assert.Equal(t,
		[]string{"belongs", "parish_teams", "teams", "brothers", "community_step_logs", "communities"},
		deletes)
}

func TestAssignResponsibleClearsThenSets(t *testing.T) {
	db := &fakeQuerier{queryIDs: []int{4}}
	cache := store.NewMemoryCache()
	cache.Set("belongs|page=1", store.Page{})

	w := NewTeamWorkflows(db, cache, logger.NewNop())
	require.NoError(t, w.AssignResponsible(context.Background(), 2, 9))

	require.Len(t, db.execSQL, 2)
	assert.Contains(t, db.execSQL[0], "SET is_responsible = false WHERE team_id")
	assert.Contains(t, db.execSQL[1], "SET is_responsible = true WHERE id")
	assert.Equal(t, []any{9, 2}, db.execArgs[1])
	assert.Equal(t, 0, cache.Len())
}

func TestAssignResponsibleUnknownMembershipRestoresPrevious(t *testing.T) {
	db := &fakeQuerier{
		queryIDs: []int{4},
		affectedFor: func(sql string) int64 {
			if strings.Contains(sql, "is_responsible = true WHERE id = $1 AND team_id") {
				return 0
			}
			return 1
		},
	}

	w := NewTeamWorkflows(db, store.NewMemoryCache(), logger.NewNop())
	err := w.AssignResponsible(context.Background(), 2, 9999)
	assert.ErrorIs(t, err, ErrMembershipNotFound)

	// clear, failed set, compensating restore of the previous holder
	require.Len(t, db.execSQL, 3)
	assert.Contains(t, db.execSQL[2], "SET is_responsible = true WHERE id = $1")
	assert.Equal(t, []any{4}, db.execArgs[2])
}
