// Package sqlstore implements the entity store over database/sql. Statements
// are generated from the table schemas in package store; the dialect decides
// placeholder syntax and how driver errors map onto constraint violations.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/parking-registry/internal/store"
)

// New returns a store whose tables live in db.
func New(db *sql.DB, d Dialect) *store.Store {
	return &store.Store{
		Lots:               NewTable(db, d, store.LotSchema),
		Spots:              NewTable(db, d, store.SpotSchema),
		PaymentMethods:     NewTable(db, d, store.PaymentMethodSchema),
		DayClassifications: NewTable(db, d, store.DayClassificationSchema),
		AcceptedMethods:    NewTable(db, d, store.AcceptedMethodSchema),
		Schedules:          NewTable(db, d, store.ScheduleSchema),
		Users:              NewTable(db, d, store.UserSchema),
		Payments:           NewTable(db, d, store.PaymentSchema),
	}
}

// Table is a store.Table backed by one SQL table.
type Table[K any, V any] struct {
	db     *sql.DB
	d      Dialect
	schema store.Schema[K, V]
}

// NewTable constructs a Table for schema s.
func NewTable[K any, V any](db *sql.DB, d Dialect, s store.Schema[K, V]) *Table[K, V] {
	return &Table[K, V]{db: db, d: d, schema: s}
}

// Insert implements store.Table. When the schema has a generated key and v
// carries a zero ID the column is left to the database and read back.
func (t *Table[K, V]) Insert(ctx context.Context, v V) (V, error) {
	cols := t.schema.Columns
	vals := t.schema.Values(v)
	generate := false
	if t.schema.AutoIncrement {
		if id, _ := vals[0].(int64); id == 0 {
			generate = true
			cols, vals = cols[1:], vals[1:]
		}
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.schema.Table, strings.Join(cols, ", "), t.placeholders(1, len(cols)))

	if !generate {
		if _, err := t.db.ExecContext(ctx, q, vals...); err != nil {
			return v, t.wrap("insert", err)
		}
		return v, nil
	}

	var id int64
	if t.d.Returning {
		q += " RETURNING " + t.schema.Columns[0]
		if err := t.db.QueryRowContext(ctx, q, vals...).Scan(&id); err != nil {
			return v, t.wrap("insert", err)
		}
	} else {
		res, err := t.db.ExecContext(ctx, q, vals...)
		if err != nil {
			return v, t.wrap("insert", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return v, t.wrap("insert", err)
		}
	}
	return t.schema.WithID(v, id), nil
}

// Get implements store.Table.
func (t *Table[K, V]) Get(ctx context.Context, key K) (V, error) {
	where, args := t.keyWhere(1, t.schema.KeyValues(key))
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(t.schema.Columns, ", "), t.schema.Table, where)
	v, err := t.schema.Scan(t.db.QueryRowContext(ctx, q, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return v, store.ErrNotFound
		}
		return v, t.wrap("get", err)
	}
	return v, nil
}

// Update implements store.Table. A zero RowsAffected is reported as
// store.ErrNotFound, which requires MySQL connections to be opened with
// clientFoundRows=true so unchanged rows still count as matched.
func (t *Table[K, V]) Update(ctx context.Context, v V) error {
	all := t.schema.Values(v)
	var sets []string
	var args []any
	var keyVals []any
	for i, c := range t.schema.Columns {
		if t.isKey(c) {
			keyVals = append(keyVals, all[i])
			continue
		}
		args = append(args, all[i])
		sets = append(sets, c+" = "+t.d.Placeholder(len(args)))
	}
	where, keyArgs := t.keyWhere(len(args)+1, keyVals)
	args = append(args, keyArgs...)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.schema.Table, strings.Join(sets, ", "), where)
	res, err := t.db.ExecContext(ctx, q, args...)
	if err != nil {
		return t.wrap("update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete implements store.Table. Cascades and restrictions are declared on
// the foreign keys in the migrations and enforced by the database.
func (t *Table[K, V]) Delete(ctx context.Context, key K) error {
	where, args := t.keyWhere(1, t.schema.KeyValues(key))
	q := fmt.Sprintf("DELETE FROM %s WHERE %s", t.schema.Table, where)
	res, err := t.db.ExecContext(ctx, q, args...)
	if err != nil {
		return t.wrap("delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// List implements store.Table. Column names are checked against the schema
// before they are spliced into the statement.
func (t *Table[K, V]) List(ctx context.Context, qry store.Query) ([]V, error) {
	var conds []string
	var args []any
	for _, c := range qry.Where {
		if !t.schema.HasColumn(c.Column) {
			return nil, fmt.Errorf("sqlstore: unknown column %q in %s", c.Column, t.schema.Table)
		}
		args = append(args, c.Value)
		conds = append(conds, c.Column+" = "+t.d.Placeholder(len(args)))
	}
	order := qry.OrderBy
	if len(order) == 0 {
		order = t.schema.OrderBy
	}
	for _, c := range order {
		if !t.schema.HasColumn(c) {
			return nil, fmt.Errorf("sqlstore: unknown order column %q in %s", c, t.schema.Table)
		}
	}

	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.schema.Columns, ", "), t.schema.Table)
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	if len(order) > 0 {
		q += " ORDER BY " + strings.Join(order, ", ")
	}

	rows, err := t.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, t.wrap("list", err)
	}
	defer rows.Close()

	var out []V
	for rows.Next() {
		v, err := t.schema.Scan(rows.Scan)
		if err != nil {
			return nil, t.wrap("list", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, t.wrap("list", err)
	}
	return out, nil
}

func (t *Table[K, V]) isKey(col string) bool {
	for _, k := range t.schema.Key {
		if k == col {
			return true
		}
	}
	return false
}

// keyWhere renders "k1 = ? AND k2 = ?" with placeholders numbered from first.
func (t *Table[K, V]) keyWhere(first int, vals []any) (string, []any) {
	parts := make([]string, len(t.schema.Key))
	for i, c := range t.schema.Key {
		parts[i] = c + " = " + t.d.Placeholder(first+i)
	}
	return strings.Join(parts, " AND "), vals
}

func (t *Table[K, V]) placeholders(first, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = t.d.Placeholder(first + i)
	}
	return strings.Join(ps, ", ")
}

// wrap returns constraint violations as *store.ConstraintError and every
// other failure with the operation and table for context.
func (t *Table[K, V]) wrap(op string, err error) error {
	if ce := t.d.Classify(err); ce != nil {
		if ce.Table == "" {
			ce.Table = t.schema.Table
		}
		return ce
	}
	return fmt.Errorf("sqlstore: %s %s: %w", op, t.schema.Table, err)
}
