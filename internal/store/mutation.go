package store

// Optimistic mutations follow a three-phase protocol: snapshot the active
// cached page, apply the speculative change, then either commit (invalidate
// every cache entry for the table so all views refetch) or roll the snapshot
// back.

type mutationState int

const (
	mutationIdle mutationState = iota
	mutationPending
	mutationCommitted
	mutationRolledBack
)

func (s mutationState) String() string {
	switch s {
	case mutationIdle:
		return "idle"
	case mutationPending:
		return "pending"
	case mutationCommitted:
		return "committed"
	case mutationRolledBack:
		return "rolled_back"
	}
	return "unknown"
}

type mutation struct {
	adapter     *Adapter
	state       mutationState
	key         string
	snapshot    Page
	hadSnapshot bool
}

// beginMutation snapshots the page under the adapter's most recent list key
// and applies speculate to it. With no active cached page there is nothing
// to patch and the mutation only tracks state.
func (a *Adapter) beginMutation(speculate func(Page) Page) *mutation {
	a.mu.Lock()
	key := a.activeKey
	a.mu.Unlock()

	m := &mutation{adapter: a, state: mutationIdle, key: key}
	if key == "" {
		m.state = mutationPending
		return m
	}
	if page, ok := a.cache.Get(key); ok {
		m.snapshot = page
		m.hadSnapshot = true
		a.cache.Set(key, speculate(clonePage(page)))
	}
	m.state = mutationPending
	return m
}

// commit settles the mutation: the speculative page is discarded along with
// every other cached page for the table, forcing refetches everywhere.
func (m *mutation) commit() {
	if m.state != mutationPending {
		return
	}
	m.adapter.cache.Invalidate(m.adapter.table.Name)
	m.state = mutationCommitted
}

// rollback restores the snapshot taken at begin time.
func (m *mutation) rollback() {
	if m.state != mutationPending {
		return
	}
	if m.hadSnapshot {
		m.adapter.cache.Set(m.key, m.snapshot)
	}
	m.state = mutationRolledBack
}

func clonePage(p Page) Page {
	rows := make([]Row, len(p.Rows))
	for i, r := range p.Rows {
		c := Row{}
		for k, v := range r {
			c[k] = v
		}
		rows[i] = c
	}
	p.Rows = rows
	return p
}
