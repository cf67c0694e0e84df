package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/parking-registry/internal/cache"
	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/metrics"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// Cache keys of the catalog list snapshots.
const (
	CacheKeyPaymentMethods     = "catalog:payment_methods"
	CacheKeyDayClassifications = "catalog:day_classifications"
)

// CatalogRepo manages the two fixed catalogs: payment methods and day
// classifications. Lists are read through the cache and every write
// invalidates the affected snapshot. Entries still referenced by lots or
// schedules cannot be deleted.
type CatalogRepo struct {
	base
	methods store.Table[int64, model.PaymentMethod]
	days    store.Table[int64, model.DayClassification]
	cache   cache.Client
	ttl     time.Duration
	// gens counts invalidations per cache key. A snapshot loaded while the
	// count moved may predate a committed write and is not kept.
	gens map[string]*atomic.Uint64
}

// NewCatalogRepo constructs a CatalogRepo. A nil cache disables caching.
func NewCatalogRepo(s *store.Store, c cache.Client, ttl time.Duration, opts ...Option) *CatalogRepo {
	return &CatalogRepo{
		base:    newBase(opts),
		methods: s.PaymentMethods,
		days:    s.DayClassifications,
		cache:   c,
		ttl:     ttl,
		gens: map[string]*atomic.Uint64{
			CacheKeyPaymentMethods:     new(atomic.Uint64),
			CacheKeyDayClassifications: new(atomic.Uint64),
		},
	}
}

// CreatePaymentMethod adds m to the catalog. m.ID may be set to seed a fixed
// identifier; zero lets the store generate one.
func (r *CatalogRepo) CreatePaymentMethod(ctx context.Context, m model.PaymentMethod) (out model.PaymentMethod, err error) {
	defer r.track(model.KindPaymentMethod, opCreate, time.Now(), &err)
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return m, invalid(model.KindPaymentMethod, "name", m.Name, "is required")
	}
	if err = checkColumnFree(ctx, r.methods, model.KindPaymentMethod, "name", m.Name, nil, "already exists"); err != nil {
		return m, err
	}
	if out, err = r.methods.Insert(ctx, m); err != nil {
		return m, translate(model.KindPaymentMethod, opCreate, m.Name, err)
	}
	r.invalidate(ctx, CacheKeyPaymentMethods)
	r.emit(ctx, model.KindPaymentMethod, events.OpCreate, model.IDKey(out.ID))
	return out, nil
}

// GetPaymentMethod returns catalog entry id.
func (r *CatalogRepo) GetPaymentMethod(ctx context.Context, id int64) (m model.PaymentMethod, err error) {
	defer r.track(model.KindPaymentMethod, opRead, time.Now(), &err)
	return get(ctx, r.methods, model.KindPaymentMethod, id, model.IDKey(id))
}

// UpdatePaymentMethod replaces the name and description of entry id.
func (r *CatalogRepo) UpdatePaymentMethod(ctx context.Context, id int64, m model.PaymentMethod) (err error) {
	defer r.track(model.KindPaymentMethod, opUpdate, time.Now(), &err)
	if err = CheckKeyUnchanged(model.KindPaymentMethod, model.IDKey(id), model.IDKey(m.ID)); err != nil {
		return err
	}
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return invalid(model.KindPaymentMethod, "name", m.Name, "is required")
	}
	self := func(o model.PaymentMethod) bool { return o.ID == id }
	if err = checkColumnFree(ctx, r.methods, model.KindPaymentMethod, "name", m.Name, self, "already exists"); err != nil {
		return err
	}
	if err = update(ctx, r.methods, model.KindPaymentMethod, m, model.IDKey(id), m.Name); err != nil {
		return err
	}
	r.invalidate(ctx, CacheKeyPaymentMethods)
	r.emit(ctx, model.KindPaymentMethod, events.OpUpdate, model.IDKey(id))
	return nil
}

// DeletePaymentMethod removes entry id. It fails with an IntegrityError while
// any lot accepts the method.
func (r *CatalogRepo) DeletePaymentMethod(ctx context.Context, id int64) (err error) {
	defer r.track(model.KindPaymentMethod, opDelete, time.Now(), &err)
	if err = remove(ctx, r.methods, model.KindPaymentMethod, id, model.IDKey(id)); err != nil {
		return err
	}
	r.invalidate(ctx, CacheKeyPaymentMethods)
	r.emit(ctx, model.KindPaymentMethod, events.OpDelete, model.IDKey(id))
	return nil
}

// ListPaymentMethods returns the catalog ordered by name.
func (r *CatalogRepo) ListPaymentMethods(ctx context.Context) (ms []model.PaymentMethod, err error) {
	defer r.track(model.KindPaymentMethod, opList, time.Now(), &err)
	return cachedList(ctx, r, CacheKeyPaymentMethods, "payment_methods", func() ([]model.PaymentMethod, error) {
		return list(ctx, r.methods, model.KindPaymentMethod)
	})
}

// CreateDayClassification adds d to the catalog.
func (r *CatalogRepo) CreateDayClassification(ctx context.Context, d model.DayClassification) (out model.DayClassification, err error) {
	defer r.track(model.KindDayClassification, opCreate, time.Now(), &err)
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, invalid(model.KindDayClassification, "name", d.Name, "is required")
	}
	if err = checkColumnFree(ctx, r.days, model.KindDayClassification, "name", d.Name, nil, "already exists"); err != nil {
		return d, err
	}
	if out, err = r.days.Insert(ctx, d); err != nil {
		return d, translate(model.KindDayClassification, opCreate, d.Name, err)
	}
	r.invalidate(ctx, CacheKeyDayClassifications)
	r.emit(ctx, model.KindDayClassification, events.OpCreate, model.IDKey(out.ID))
	return out, nil
}

// GetDayClassification returns catalog entry id.
func (r *CatalogRepo) GetDayClassification(ctx context.Context, id int64) (d model.DayClassification, err error) {
	defer r.track(model.KindDayClassification, opRead, time.Now(), &err)
	return get(ctx, r.days, model.KindDayClassification, id, model.IDKey(id))
}

// UpdateDayClassification replaces the name and description of entry id.
func (r *CatalogRepo) UpdateDayClassification(ctx context.Context, id int64, d model.DayClassification) (err error) {
	defer r.track(model.KindDayClassification, opUpdate, time.Now(), &err)
	if err = CheckKeyUnchanged(model.KindDayClassification, model.IDKey(id), model.IDKey(d.ID)); err != nil {
		return err
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return invalid(model.KindDayClassification, "name", d.Name, "is required")
	}
	self := func(o model.DayClassification) bool { return o.ID == id }
	if err = checkColumnFree(ctx, r.days, model.KindDayClassification, "name", d.Name, self, "already exists"); err != nil {
		return err
	}
	if err = update(ctx, r.days, model.KindDayClassification, d, model.IDKey(id), d.Name); err != nil {
		return err
	}
	r.invalidate(ctx, CacheKeyDayClassifications)
	r.emit(ctx, model.KindDayClassification, events.OpUpdate, model.IDKey(id))
	return nil
}

// DeleteDayClassification removes entry id. It fails with an IntegrityError
// while schedules use it.
func (r *CatalogRepo) DeleteDayClassification(ctx context.Context, id int64) (err error) {
	defer r.track(model.KindDayClassification, opDelete, time.Now(), &err)
	if err = remove(ctx, r.days, model.KindDayClassification, id, model.IDKey(id)); err != nil {
		return err
	}
	r.invalidate(ctx, CacheKeyDayClassifications)
	r.emit(ctx, model.KindDayClassification, events.OpDelete, model.IDKey(id))
	return nil
}

// ListDayClassifications returns the catalog ordered by name.
func (r *CatalogRepo) ListDayClassifications(ctx context.Context) (ds []model.DayClassification, err error) {
	defer r.track(model.KindDayClassification, opList, time.Now(), &err)
	return cachedList(ctx, r, CacheKeyDayClassifications, "day_classifications", func() ([]model.DayClassification, error) {
		return list(ctx, r.days, model.KindDayClassification)
	})
}

// cachedList serves key from the cache, loading and storing it on a miss.
// Cache failures fall back to the store.
func cachedList[V any](ctx context.Context, r *CatalogRepo, key, catalog string, load func() ([]V, error)) ([]V, error) {
	if r.cache == nil {
		return load()
	}
	b, err := r.cache.Get(ctx, key)
	if err == nil {
		var out []V
		if err = json.Unmarshal(b, &out); err == nil {
			metrics.CatalogCache.WithLabelValues(catalog, "hit").Inc()
			return out, nil
		}
	}
	if !errors.Is(err, cache.ErrNotFound) {
		r.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	metrics.CatalogCache.WithLabelValues(catalog, "miss").Inc()

	gen := r.gens[key]
	before := gen.Load()
	out, err := load()
	if err != nil {
		return nil, err
	}
	if gen.Load() != before {
		return out, nil
	}
	b, err = json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := r.cache.Set(ctx, key, b, r.ttl); err != nil {
		r.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		return out, nil
	}
	// A write that committed during the load may have invalidated before
	// the Set landed; drop the snapshot again in that case.
	if gen.Load() != before {
		r.dropSnapshot(ctx, key)
	}
	return out, nil
}

// invalidate runs after every committed catalog write. The generation is
// bumped before the delete so a concurrent load either sees the bump or has
// its Set removed by the delete.
func (r *CatalogRepo) invalidate(ctx context.Context, key string) {
	if r.cache == nil {
		return
	}
	r.gens[key].Add(1)
	r.dropSnapshot(ctx, key)
}

func (r *CatalogRepo) dropSnapshot(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.log.Warn("catalog cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
