// Package memstore is an in-process store backend. It enforces the same
// primary keys, unique indexes and foreign keys (with restrict/cascade delete
// policies) as the SQL schema, and reports violations with the same
// store.ConstraintError values, so the repositories cannot tell it apart from
// a database. Each statement runs under one mutex and is therefore atomic.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/parking-registry/internal/store"
)

// DB holds every table of one in-memory database.
type DB struct {
	mu     sync.Mutex
	tables map[string]*table
}

type row struct {
	vals []any
	item any
}

type table struct {
	name    string
	columns []string
	index   map[string]int
	key     []string
	auto    bool
	uniques []store.Unique
	fks     []store.ForeignKey
	seq     int64
	rows    map[string]*row
}

// New returns a store whose tables live in a fresh in-memory database.
func New() *store.Store {
	db := &DB{tables: map[string]*table{}}
	return &store.Store{
		Lots:               newTable(db, store.LotSchema),
		Spots:              newTable(db, store.SpotSchema),
		PaymentMethods:     newTable(db, store.PaymentMethodSchema),
		DayClassifications: newTable(db, store.DayClassificationSchema),
		AcceptedMethods:    newTable(db, store.AcceptedMethodSchema),
		Schedules:          newTable(db, store.ScheduleSchema),
		Users:              newTable(db, store.UserSchema),
		Payments:           newTable(db, store.PaymentSchema),
	}
}

// Table is the typed view of one in-memory table.
type Table[K any, V any] struct {
	db     *DB
	t      *table
	schema store.Schema[K, V]
}

func newTable[K any, V any](db *DB, s store.Schema[K, V]) *Table[K, V] {
	t := &table{
		name:    s.Table,
		columns: s.Columns,
		index:   make(map[string]int, len(s.Columns)),
		key:     s.Key,
		auto:    s.AutoIncrement,
		uniques: s.Uniques,
		fks:     s.ForeignKeys,
		rows:    map[string]*row{},
	}
	for i, c := range s.Columns {
		t.index[c] = i
	}
	db.tables[s.Table] = t
	return &Table[K, V]{db: db, t: t, schema: s}
}

// Insert implements store.Table.
func (m *Table[K, V]) Insert(ctx context.Context, v V) (V, error) {
	if err := ctx.Err(); err != nil {
		return v, err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	vals := m.schema.Values(v)
	if m.t.auto {
		id, _ := vals[0].(int64)
		if id == 0 {
			id = m.t.seq + 1
			v = m.schema.WithID(v, id)
			vals = m.schema.Values(v)
		}
		if id > m.t.seq {
			m.t.seq = id
		}
	}
	k := encode(m.t.pick(vals, m.t.key))
	if _, ok := m.t.rows[k]; ok {
		return v, &store.ConstraintError{Kind: store.UniqueViolation, Table: m.t.name, Constraint: store.PrimaryKey}
	}
	if err := m.db.checkRow(m.t, k, vals); err != nil {
		return v, err
	}
	m.t.rows[k] = &row{vals: vals, item: v}
	return v, nil
}

// Get implements store.Table.
func (m *Table[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	r, ok := m.t.rows[encode(m.schema.KeyValues(key))]
	if !ok {
		return zero, store.ErrNotFound
	}
	return r.item.(V), nil
}

// Update implements store.Table.
func (m *Table[K, V]) Update(ctx context.Context, v V) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	vals := m.schema.Values(v)
	k := encode(m.t.pick(vals, m.t.key))
	r, ok := m.t.rows[k]
	if !ok {
		return store.ErrNotFound
	}
	if err := m.db.checkRow(m.t, k, vals); err != nil {
		return err
	}
	r.vals, r.item = vals, v
	return nil
}

// Delete implements store.Table. Rows reached through cascading foreign keys
// are removed with the parent; if any of them is referenced through a
// restricting foreign key nothing is removed.
func (m *Table[K, V]) Delete(ctx context.Context, key K) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	k := encode(m.schema.KeyValues(key))
	if _, ok := m.t.rows[k]; !ok {
		return store.ErrNotFound
	}
	doomed := map[*table]map[string]bool{}
	if err := m.db.collect(m.t, k, doomed); err != nil {
		return err
	}
	for t, keys := range doomed {
		for rk := range keys {
			delete(t.rows, rk)
		}
	}
	return nil
}

// List implements store.Table.
func (m *Table[K, V]) List(ctx context.Context, q store.Query) ([]V, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, c := range q.Where {
		if _, ok := m.t.index[c.Column]; !ok {
			return nil, fmt.Errorf("memstore: unknown column %q in %s", c.Column, m.t.name)
		}
	}
	order := q.OrderBy
	if len(order) == 0 {
		order = m.schema.OrderBy
	}
	for _, c := range order {
		if _, ok := m.t.index[c]; !ok {
			return nil, fmt.Errorf("memstore: unknown order column %q in %s", c, m.t.name)
		}
	}

	var matched []*row
	for _, r := range m.t.rows {
		if m.t.matches(r, q.Where) {
			matched = append(matched, r)
		}
	}
	keyOrder := append(append([]string(nil), order...), m.t.key...)
	sort.Slice(matched, func(i, j int) bool {
		for _, c := range keyOrder {
			ci := m.t.index[c]
			if n := compare(matched[i].vals[ci], matched[j].vals[ci]); n != 0 {
				return n < 0
			}
		}
		return false
	})
	out := make([]V, 0, len(matched))
	for _, r := range matched {
		out = append(out, r.item.(V))
	}
	return out, nil
}

// checkRow validates unique indexes (ignoring the row stored under self) and
// the existence of every referenced parent row.
func (db *DB) checkRow(t *table, self string, vals []any) error {
	for _, u := range t.uniques {
		want := encode(t.pick(vals, u.Columns))
		for rk, r := range t.rows {
			if rk != self && encode(t.pick(r.vals, u.Columns)) == want {
				return &store.ConstraintError{Kind: store.UniqueViolation, Table: t.name, Constraint: u.Name}
			}
		}
	}
	for _, fk := range t.fks {
		parent, ok := db.tables[fk.RefTable]
		if !ok {
			return fmt.Errorf("memstore: %s references unknown table %s", t.name, fk.RefTable)
		}
		if _, ok := parent.rows[encode(t.pick(vals, fk.Columns))]; !ok {
			return &store.ConstraintError{Kind: store.ForeignKeyViolation, Table: t.name, Constraint: fk.Name}
		}
	}
	return nil
}

// collect adds the row t[k] and every row reached from it through cascading
// foreign keys to doomed. It fails on the first restricting reference.
func (db *DB) collect(t *table, k string, doomed map[*table]map[string]bool) error {
	if doomed[t] == nil {
		doomed[t] = map[string]bool{}
	}
	if doomed[t][k] {
		return nil
	}
	doomed[t][k] = true
	for _, child := range db.sortedTables() {
		for _, fk := range child.fks {
			if fk.RefTable != t.name {
				continue
			}
			for ck, cr := range child.rows {
				if encode(child.pick(cr.vals, fk.Columns)) != k {
					continue
				}
				if fk.OnDelete == store.Restrict {
					return &store.ConstraintError{Kind: store.ForeignKeyViolation, Table: child.name, Constraint: fk.Name}
				}
				if err := db.collect(child, ck, doomed); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (db *DB) sortedTables() []*table {
	out := make([]*table, 0, len(db.tables))
	for _, t := range db.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (t *table) pick(vals []any, cols []string) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = vals[t.index[c]]
	}
	return out
}

func (t *table) matches(r *row, where []store.Cond) bool {
	for _, c := range where {
		if encodeOne(r.vals[t.index[c.Column]]) != encodeOne(c.Value) {
			return false
		}
	}
	return true
}

func encode(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = encodeOne(v)
	}
	return strings.Join(parts, "\x1f")
}

func encodeOne(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func compare(a, b any) int {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok && x != y {
			if !x {
				return -1
			}
			return 1
		}
		return 0
	}
	return strings.Compare(encodeOne(a), encodeOne(b))
}
