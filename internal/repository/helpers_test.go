package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
	"github.com/iliyamo/parking-registry/internal/store/memstore"
)

var quiet = WithLogger(zap.NewNop())

// recorder collects published changes.
type recorder struct {
	mu      sync.Mutex
	changes []events.Change
}

func (r *recorder) Publish(_ context.Context, c events.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
	return nil
}

func (r *recorder) ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Entity + ":" + c.Op + ":" + c.Key
	}
	return out
}

// blindTable never sees existing rows through Get or List, the way a guard
// does when a concurrent writer commits between its check and the write.
type blindTable[K any, V any] struct {
	store.Table[K, V]
}

func (b blindTable[K, V]) Get(context.Context, K) (V, error) {
	var zero V
	return zero, store.ErrNotFound
}

func (b blindTable[K, V]) List(context.Context, store.Query) ([]V, error) { return nil, nil }

// countingTable counts List calls.
type countingTable[K any, V any] struct {
	store.Table[K, V]
	mu    sync.Mutex
	lists int
}

func (c *countingTable[K, V]) List(ctx context.Context, q store.Query) ([]V, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.Table.List(ctx, q)
}

// afterListTable runs hook once, after the first List call read its rows.
type afterListTable[K any, V any] struct {
	store.Table[K, V]
	fired bool
	hook  func()
}

func (a *afterListTable[K, V]) List(ctx context.Context, q store.Query) ([]V, error) {
	rows, err := a.Table.List(ctx, q)
	if !a.fired {
		a.fired = true
		a.hook()
	}
	return rows, err
}

// downTable fails every call as an unreachable database would.
type downTable[K any, V any] struct {
	store.Table[K, V]
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

func (downTable[K, V]) Insert(_ context.Context, v V) (V, error) { return v, errConnRefused }
func (downTable[K, V]) Get(context.Context, K) (V, error) {
	var zero V
	return zero, errConnRefused
}
func (downTable[K, V]) Update(context.Context, V) error                 { return errConnRefused }
func (downTable[K, V]) Delete(context.Context, K) error                 { return errConnRefused }
func (downTable[K, V]) List(context.Context, store.Query) ([]V, error) { return nil, errConnRefused }

type fixture struct {
	store    *store.Store
	events   *recorder
	lots     *LotRepo
	spots    *SpotRepo
	accepted *AcceptedMethodRepo
	sched    *ScheduleRepo
	catalog  *CatalogRepo
	payments *PaymentRepo
	users    *UserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, memstore.New())
}

func newFixtureOn(t *testing.T, s *store.Store) *fixture {
	t.Helper()
	rec := &recorder{}
	opts := []Option{quiet, WithPublisher(rec)}
	return &fixture{
		store:    s,
		events:   rec,
		lots:     NewLotRepo(s, opts...),
		spots:    NewSpotRepo(s, opts...),
		accepted: NewAcceptedMethodRepo(s, opts...),
		sched:    NewScheduleRepo(s, opts...),
		catalog:  NewCatalogRepo(s, nil, 0, opts...),
		payments: NewPaymentRepo(s, opts...),
		users:    NewUserRepo(s, 4, opts...),
	}
}

func (f *fixture) lot(t *testing.T, city, address string) model.Lot {
	t.Helper()
	l, err := f.lots.Create(context.Background(), model.Lot{Province: "Santa Fe", City: city, Address: address, FloorType: "concrete"})
	require.NoError(t, err)
	return l
}

func (f *fixture) method(t *testing.T, name string) model.PaymentMethod {
	t.Helper()
	m, err := f.catalog.CreatePaymentMethod(context.Background(), model.PaymentMethod{Name: name})
	require.NoError(t, err)
	return m
}

func (f *fixture) day(t *testing.T, name string) model.DayClassification {
	t.Helper()
	d, err := f.catalog.CreateDayClassification(context.Background(), model.DayClassification{Name: name})
	require.NoError(t, err)
	return d
}

// validationField asserts err is a ValidationError and returns its field.
func validationField(t *testing.T, err error) string {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Field
}
