package options

import (
	"context"
	"fmt"
	"strings"

	"github.com/caminoadmin/comunidades-go/internal/store"
)

// Option is one dropdown choice.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// LabelFn renders a row into the dropdown label.
type LabelFn func(store.Row) string

// Loader produces the option list for one dropdown, re-reading the table on
// every call. Loads are read-only and unpaginated; there is no cache beyond
// whatever the caller does with the result.
type Loader struct {
	Name         string
	adapter      *store.Adapter
	label        LabelFn
	parentColumn string // exact-match filter column driven by the parent selection
	sort         store.Sort
	custom       func(ctx context.Context, parent *int) ([]Option, error)
}

// New builds a loader over an adapter's read path. parentColumn may be empty
// for independent dropdowns.
func New(name string, adapter *store.Adapter, label LabelFn, parentColumn string, sort store.Sort) *Loader {
	return &Loader{
		Name:         name,
		adapter:      adapter,
		label:        label,
		parentColumn: parentColumn,
		sort:         sort,
	}
}

// NewCustom builds a loader from an arbitrary fetch function, for option
// lists the generic filter model cannot express.
func NewCustom(name string, fetch func(ctx context.Context, parent *int) ([]Option, error)) *Loader {
	return &Loader{Name: name, custom: fetch}
}

// Load fetches the options. When the loader declares a parent column and a
// parent is given, the list is narrowed to that parent's rows; without one it
// lists everything, so forms that have no cascade field still get options.
func (l *Loader) Load(ctx context.Context, parent *int) ([]Option, error) {
	if l.custom != nil {
		return l.custom(ctx, parent)
	}

	p := store.ListParams{Sort: l.sort}
	if l.parentColumn != "" && parent != nil {
		p.Filters = map[string]any{l.parentColumn: *parent}
	}

	rows, err := l.adapter.ListAll(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s options: %w", l.Name, err)
	}

	opts := make([]Option, 0, len(rows))
	for _, r := range rows {
		opts = append(opts, Option{Value: r["id"], Label: l.label(r)})
	}
	return opts, nil
}

// FiltersByParent reports whether this loader narrows by a parent value.
func (l *Loader) FiltersByParent() bool {
	return l.parentColumn != ""
}

// Registry holds every loader by name, matching the loader names referenced
// from the entity schemas.
type Registry struct {
	loaders map[string]*Loader
}

func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]*Loader)}
}

func (r *Registry) Register(l *Loader) {
	r.loaders[l.Name] = l
}

func (r *Registry) Get(name string) (*Loader, bool) {
	l, ok := r.loaders[name]
	return l, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	return names
}

// FieldLabel joins the given row fields with a space, skipping blanks. The
// common LabelFn for people and similarly named rows.
func FieldLabel(fields ...string) LabelFn {
	return func(row store.Row) string {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			if v := row[f]; v != nil {
				if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
					parts = append(parts, s)
				}
			}
		}
		return strings.Join(parts, " ")
	}
}
