package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/logger"
	"github.com/iliyamo/parking-registry/internal/metrics"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// Option configures the collaborators shared by every repository.
type Option func(*base)

// WithPublisher makes the repository publish a change after each committed
// write.
func WithPublisher(p events.Publisher) Option {
	return func(b *base) {
		if p != nil {
			b.pub = p
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.log = l
		}
	}
}

type base struct {
	pub events.Publisher
	log *zap.Logger
}

func newBase(opts []Option) base {
	b := base{pub: events.Noop{}, log: logger.Named("repository")}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// track is deferred by every exported operation with a pointer to its named
// error result.
func (b *base) track(kind model.Kind, op string, start time.Time, errp *error) {
	err := *errp
	metrics.ObserveOperation(string(kind), op, outcome(err), time.Since(start))
	if errors.Is(err, ErrStoreUnavailable) {
		b.log.Error("store failure", zap.String("entity", string(kind)), zap.String("op", op), zap.Error(err))
	}
}

// emit publishes a committed change. The write already happened, so a broker
// failure is logged and swallowed.
func (b *base) emit(ctx context.Context, kind model.Kind, op string, key fmt.Stringer) {
	if err := b.pub.Publish(ctx, events.NewChange(string(kind), op, key.String())); err != nil {
		b.log.Warn("change event not published",
			zap.String("entity", string(kind)), zap.String("op", op), zap.String("key", key.String()), zap.Error(err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrKeyImmutable):
		return "key_immutable"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "unavailable"
}

// get reads one record, reporting a missing key as ErrNotFound.
func get[K any, V any](ctx context.Context, t store.Table[K, V], kind model.Kind, key K, label fmt.Stringer) (V, error) {
	v, err := t.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return v, notFound(kind, label)
	}
	if err != nil {
		return v, translate(kind, opRead, nil, err)
	}
	return v, nil
}

func update[K any, V any](ctx context.Context, t store.Table[K, V], kind model.Kind, v V, label fmt.Stringer, input any) error {
	err := t.Update(ctx, v)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(kind, label)
	}
	return translate(kind, opUpdate, input, err)
}

func remove[K any, V any](ctx context.Context, t store.Table[K, V], kind model.Kind, key K, label fmt.Stringer) error {
	err := t.Delete(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(kind, label)
	}
	return translate(kind, opDelete, nil, err)
}

func list[K any, V any](ctx context.Context, t store.Table[K, V], kind model.Kind, conds ...store.Cond) ([]V, error) {
	rows, err := t.List(ctx, store.Query{Where: conds})
	if err != nil {
		return nil, translate(kind, opList, nil, err)
	}
	return rows, nil
}

// requireLot is used by lot-scoped listings so a missing lot is reported
// instead of an empty result.
func requireLot(ctx context.Context, lots store.Table[int64, model.Lot], id int64) error {
	_, err := get(ctx, lots, model.KindLot, id, model.IDKey(id))
	return err
}
