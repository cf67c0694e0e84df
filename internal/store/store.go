// Package store defines the entity store the repositories are built on: typed
// tables addressed by key, equality range queries, and constraint violations
// reported as a distinguishable error kind. Backends live in the sqlstore
// (MySQL, PostgreSQL) and memstore subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/parking-registry/internal/model"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("store: record not found")

// PrimaryKey is the constraint name reported for primary key collisions on
// every backend.
const PrimaryKey = "PRIMARY"

// ConstraintKind tells unique violations apart from foreign key violations.
type ConstraintKind int

const (
	UniqueViolation ConstraintKind = iota + 1
	ForeignKeyViolation
)

func (k ConstraintKind) String() string {
	switch k {
	case UniqueViolation:
		return "unique"
	case ForeignKeyViolation:
		return "foreign key"
	}
	return "unknown"
}

// ConstraintError is returned when a write is rejected by a schema
// constraint. Table is the table whose row violates the constraint (for a
// restricted delete, the referencing child table).
type ConstraintError struct {
	Kind       ConstraintKind
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("store: %s constraint %q violated on %s", e.Kind, e.Constraint, e.Table)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// AsConstraint extracts a *ConstraintError from err's chain.
func AsConstraint(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Cond is an equality predicate on a column.
type Cond struct {
	Column string
	Value  any
}

// Eq builds a Cond.
func Eq(column string, value any) Cond { return Cond{Column: column, Value: value} }

// Query selects rows by ANDed equality predicates. An empty OrderBy falls back
// to the table's declared order.
type Query struct {
	Where   []Cond
	OrderBy []string
}

// Table is a typed collection of rows keyed by K. Every method is a single
// atomic statement against the backend.
type Table[K any, V any] interface {
	// Insert stores v and returns it with any generated identity filled in.
	Insert(ctx context.Context, v V) (V, error)
	// Get returns the row with the given key or ErrNotFound.
	Get(ctx context.Context, key K) (V, error)
	// Update replaces the non-key columns of the row identified by v's key.
	Update(ctx context.Context, v V) error
	// Delete removes the row with the given key, applying the schema's
	// delete policies to referencing rows.
	Delete(ctx context.Context, key K) error
	// List returns the rows matching q in a stable order.
	List(ctx context.Context, q Query) ([]V, error)
}

// Store groups the tables of every entity kind.
type Store struct {
	Lots               Table[int64, model.Lot]
	Spots              Table[model.SpotKey, model.ParkingSpot]
	PaymentMethods     Table[int64, model.PaymentMethod]
	DayClassifications Table[int64, model.DayClassification]
	AcceptedMethods    Table[model.AcceptedMethodKey, model.AcceptedPaymentMethod]
	Schedules          Table[model.ScheduleKey, model.Schedule]
	Users              Table[int64, model.UserRecord]
	Payments           Table[int64, model.Payment]
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
