package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caminoadmin/comunidades-go/internal/logger"
)

// ErrNoPermission is returned when an update or delete touches zero rows.
// With row-level security in front of every table, an invisible row and a
// forbidden row are indistinguishable, so the adapter reports the stricter
// interpretation. See DESIGN.md.
var ErrNoPermission = errors.New("no permission to modify this row")

// Querier is the subset of pgxpool.Pool the adapter needs. Tests substitute
// a fake.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Adapter provides list/create/update/delete over one configured table with
// pagination, accent-insensitive search, display joins and an optimistic
// query cache.
type Adapter struct {
	table Table
	db    Querier
	cache Cache
	log   *logger.Logger

	mu        sync.Mutex
	activeKey string // cache key of the most recent list query
}

func NewAdapter(table Table, db Querier, cache Cache, log *logger.Logger) *Adapter {
	if table.PageSize <= 0 {
		table.PageSize = 10
	}
	return &Adapter{
		table: table,
		db:    db,
		cache: cache,
		log:   log.With("table", table.Name),
	}
}

// Table exposes the adapter's configuration (read-only).
func (a *Adapter) Table() Table { return a.table }

// List returns one page of rows matching the params, serving repeated
// queries from the cache until a mutation invalidates them.
func (a *Adapter) List(ctx context.Context, p ListParams) (Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	key := a.table.CacheKey(p)

	a.mu.Lock()
	a.activeKey = key
	a.mu.Unlock()

	if page, ok := a.cache.Get(key); ok {
		return page, nil
	}

	countSQL, countArgs, err := a.table.CountSQL(p)
	if err != nil {
		return Page{}, err
	}
	var total int
	if err := a.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("failed to count %s: %w", a.table.Name, err)
	}

	pageSQL, pageArgs, err := a.table.PageSQL(p)
	if err != nil {
		return Page{}, err
	}
	rows, err := a.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return Page{}, fmt.Errorf("failed to query %s: %w", a.table.Name, err)
	}
	defer rows.Close()

	result, err := collectRows(rows)
	if err != nil {
		return Page{}, fmt.Errorf("failed to read %s rows: %w", a.table.Name, err)
	}

	page := Page{Rows: result, Total: total, Page: p.Page}
	a.cache.Set(key, page)
	return page, nil
}

// ListAll returns every row matching the params without pagination or
// caching. The option loaders and CSV export use it. The query is built from
// a local copy of the table config so concurrent List calls never observe the
// all-rows page size.
func (a *Adapter) ListAll(ctx context.Context, p ListParams) ([]Row, error) {
	p.Page = 1
	t := a.table
	t.PageSize = allRowsPageSize
	pageSQL, pageArgs, err := t.PageSQL(p)
	if err != nil {
		return nil, err
	}
	rows, err := a.db.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", a.table.Name, err)
	}
	defer rows.Close()
	result, err := collectRows(rows)
	if err != nil {
		return nil, err
	}
	if len(result) >= allRowsPageSize {
		a.log.Warn("unpaginated read hit the row cap, result is truncated",
			"rows", len(result), "cap", allRowsPageSize)
	}
	return result, nil
}

const allRowsPageSize = 10000

// Create inserts a new row, optimistically placing a synthetic row at the
// head of the active cached page while the statement runs.
func (a *Adapter) Create(ctx context.Context, payload Row) (Row, error) {
	insertSQL, args, err := a.table.InsertSQL(payload)
	if err != nil {
		return nil, err
	}

	m := a.beginMutation(func(page Page) Page {
		synthetic := Row{}
		for k, v := range payload {
			synthetic[k] = v
		}
		synthetic["id"] = nextSyntheticID()
		page.Rows = append([]Row{synthetic}, page.Rows...)
		page.Total++
		return page
	})

	rows, err := a.db.Query(ctx, insertSQL, args...)
	if err != nil {
		m.rollback()
		return nil, fmt.Errorf("failed to insert into %s: %w", a.table.Name, err)
	}
	created, err := collectRows(rows)
	rows.Close()
	if err != nil {
		m.rollback()
		return nil, fmt.Errorf("failed to read created %s row: %w", a.table.Name, err)
	}
	if len(created) == 0 {
		m.rollback()
		return nil, fmt.Errorf("insert into %s returned no row", a.table.Name)
	}

	m.commit()
	a.log.Info("row created", "id", created[0]["id"])
	return created[0], nil
}

// Update patches the row with the given primary key, optimistically patching
// the matching cached row while the statement runs.
func (a *Adapter) Update(ctx context.Context, id any, patch Row) error {
	updateSQL, args, err := a.table.UpdateSQL(id, patch)
	if err != nil {
		return err
	}

	m := a.beginMutation(func(page Page) Page {
		rows := make([]Row, len(page.Rows))
		for i, r := range page.Rows {
			if rowID(r) == fmt.Sprint(id) {
				patched := Row{}
				for k, v := range r {
					patched[k] = v
				}
				for k, v := range patch {
					patched[k] = v
				}
				rows[i] = patched
			} else {
				rows[i] = r
			}
		}
		page.Rows = rows
		return page
	})

	tag, err := a.db.Exec(ctx, updateSQL, args...)
	if err != nil {
		m.rollback()
		return fmt.Errorf("failed to update %s: %w", a.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		m.rollback()
		return ErrNoPermission
	}

	m.commit()
	a.log.Info("row updated", "id", id)
	return nil
}

// Delete removes the row with the given primary key, optimistically dropping
// it from the active cached page while the statement runs. Zero affected
// rows roll back the optimistic change and surface ErrNoPermission.
func (a *Adapter) Delete(ctx context.Context, id any) error {
	deleteSQL, args := a.table.DeleteSQL(id)

	m := a.beginMutation(func(page Page) Page {
		rows := make([]Row, 0, len(page.Rows))
		removed := false
		for _, r := range page.Rows {
			if !removed && rowID(r) == fmt.Sprint(id) {
				removed = true
				continue
			}
			rows = append(rows, r)
		}
		page.Rows = rows
		if removed && page.Total > 0 {
			page.Total--
		}
		return page
	})

	tag, err := a.db.Exec(ctx, deleteSQL, args...)
	if err != nil {
		m.rollback()
		return fmt.Errorf("failed to delete from %s: %w", a.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		m.rollback()
		return ErrNoPermission
	}

	m.commit()
	a.log.Info("row deleted", "id", id)
	return nil
}

var syntheticID int64

// nextSyntheticID returns a fresh negative ID so optimistic rows can never
// collide with real primary keys.
func nextSyntheticID() int64 {
	return -atomic.AddInt64(&syntheticID, 1)
}

func rowID(r Row) string {
	return fmt.Sprint(r["id"])
}

// collectRows drains pgx rows into generic Row maps keyed by column name.
func collectRows(rows pgx.Rows) ([]Row, error) {
	fields := rows.FieldDescriptions()
	out := []Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		r := Row{}
		for i, fd := range fields {
			r[fd.Name] = values[i]
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
