package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// LotRepo manages parking lots. Deleting a lot removes its spots, schedules
// and accepted payment methods with it, unless one of those accepted methods
// has payments.
type LotRepo struct {
	base
	lots store.Table[int64, model.Lot]
}

// NewLotRepo constructs a LotRepo over s.
func NewLotRepo(s *store.Store, opts ...Option) *LotRepo {
	return &LotRepo{base: newBase(opts), lots: s.Lots}
}

func validateLot(l model.Lot) error {
	for _, f := range []struct{ name, v string }{
		{"province", l.Province}, {"city", l.City}, {"address", l.Address},
	} {
		if strings.TrimSpace(f.v) == "" {
			return invalid(model.KindLot, f.name, f.v, "is required")
		}
	}
	if l.Rating.Valid && (l.Rating.Float64 < 0 || l.Rating.Float64 > 5) {
		return invalid(model.KindLot, "rating", l.Rating.Float64, "must be between 0 and 5")
	}
	return nil
}

// Create stores l under a newly generated ID, which is returned in the
// result. Any ID set on l is ignored.
func (r *LotRepo) Create(ctx context.Context, l model.Lot) (out model.Lot, err error) {
	defer r.track(model.KindLot, opCreate, time.Now(), &err)
	if err = validateLot(l); err != nil {
		return l, err
	}
	l.ID = 0
	out, err = r.lots.Insert(ctx, l)
	if err != nil {
		return l, translate(model.KindLot, opCreate, l, err)
	}
	r.emit(ctx, model.KindLot, events.OpCreate, out.Key())
	return out, nil
}

// Get returns the lot with the given ID.
func (r *LotRepo) Get(ctx context.Context, id int64) (l model.Lot, err error) {
	defer r.track(model.KindLot, opRead, time.Now(), &err)
	return get(ctx, r.lots, model.KindLot, id, model.IDKey(id))
}

// Update replaces the attributes of lot id with those of l. l.ID must equal id.
func (r *LotRepo) Update(ctx context.Context, id int64, l model.Lot) (err error) {
	defer r.track(model.KindLot, opUpdate, time.Now(), &err)
	if err = CheckKeyUnchanged(model.KindLot, model.IDKey(id), l.Key()); err != nil {
		return err
	}
	if err = validateLot(l); err != nil {
		return err
	}
	if err = update(ctx, r.lots, model.KindLot, l, l.Key(), l); err != nil {
		return err
	}
	r.emit(ctx, model.KindLot, events.OpUpdate, l.Key())
	return nil
}

// Delete removes lot id together with its dependent records.
func (r *LotRepo) Delete(ctx context.Context, id int64) (err error) {
	defer r.track(model.KindLot, opDelete, time.Now(), &err)
	if err = remove(ctx, r.lots, model.KindLot, id, model.IDKey(id)); err != nil {
		return err
	}
	r.emit(ctx, model.KindLot, events.OpDelete, model.IDKey(id))
	return nil
}

// List returns every lot ordered by city, then address.
func (r *LotRepo) List(ctx context.Context) (ls []model.Lot, err error) {
	defer r.track(model.KindLot, opList, time.Now(), &err)
	return list(ctx, r.lots, model.KindLot)
}
