package repository

import (
	"context"
	"time"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// SpotDetail is a spot with its lot resolved.
type SpotDetail struct {
	model.ParkingSpot
	Lot model.Lot `json:"lot"`
}

// SpotRepo manages parking spots, identified by (lot, number).
type SpotRepo struct {
	base
	spots store.Table[model.SpotKey, model.ParkingSpot]
	lots  store.Table[int64, model.Lot]
}

// NewSpotRepo constructs a SpotRepo over s.
func NewSpotRepo(s *store.Store, opts ...Option) *SpotRepo {
	return &SpotRepo{base: newBase(opts), spots: s.Spots, lots: s.Lots}
}

func validateSpot(s model.ParkingSpot) error {
	if s.Number <= 0 {
		return invalid(model.KindSpot, "number", s.Number, "must be positive")
	}
	if s.MaxHeight < 0 {
		return invalid(model.KindSpot, "max_height", s.MaxHeight, "must not be negative")
	}
	return nil
}

// Create stores s. A spot number already used in the same lot is reported as
// a ValidationError on "number"; an unknown lot as an IntegrityError.
func (r *SpotRepo) Create(ctx context.Context, s model.ParkingSpot) (err error) {
	defer r.track(model.KindSpot, opCreate, time.Now(), &err)
	if err = validateSpot(s); err != nil {
		return err
	}
	if err = CheckUnique(ctx, r.spots, model.KindSpot, s.Key(), s.Number); err != nil {
		return err
	}
	if _, err = r.spots.Insert(ctx, s); err != nil {
		return translate(model.KindSpot, opCreate, s.Number, err)
	}
	r.emit(ctx, model.KindSpot, events.OpCreate, s.Key())
	return nil
}

// Get returns the spot identified by k.
func (r *SpotRepo) Get(ctx context.Context, k model.SpotKey) (s model.ParkingSpot, err error) {
	defer r.track(model.KindSpot, opRead, time.Now(), &err)
	return get(ctx, r.spots, model.KindSpot, k, k)
}

// GetDetail returns the spot identified by k with its lot.
func (r *SpotRepo) GetDetail(ctx context.Context, k model.SpotKey) (d SpotDetail, err error) {
	defer r.track(model.KindSpot, opRead, time.Now(), &err)
	if d.ParkingSpot, err = get(ctx, r.spots, model.KindSpot, k, k); err != nil {
		return d, err
	}
	d.Lot, err = get(ctx, r.lots, model.KindLot, k.LotID, model.IDKey(k.LotID))
	return d, err
}

// Update replaces the attributes of spot k. The lot and number of s must
// match k.
func (r *SpotRepo) Update(ctx context.Context, k model.SpotKey, s model.ParkingSpot) (err error) {
	defer r.track(model.KindSpot, opUpdate, time.Now(), &err)
	if err = CheckKeyUnchanged(model.KindSpot, k, s.Key()); err != nil {
		return err
	}
	if err = validateSpot(s); err != nil {
		return err
	}
	if err = update(ctx, r.spots, model.KindSpot, s, k, s.Number); err != nil {
		return err
	}
	r.emit(ctx, model.KindSpot, events.OpUpdate, k)
	return nil
}

// Delete removes spot k.
func (r *SpotRepo) Delete(ctx context.Context, k model.SpotKey) (err error) {
	defer r.track(model.KindSpot, opDelete, time.Now(), &err)
	if err = remove(ctx, r.spots, model.KindSpot, k, k); err != nil {
		return err
	}
	r.emit(ctx, model.KindSpot, events.OpDelete, k)
	return nil
}

// List returns every spot ordered by lot and number.
func (r *SpotRepo) List(ctx context.Context) (ss []model.ParkingSpot, err error) {
	defer r.track(model.KindSpot, opList, time.Now(), &err)
	return list(ctx, r.spots, model.KindSpot)
}

// ListByLot returns the spots of one lot ordered by number.
func (r *SpotRepo) ListByLot(ctx context.Context, lotID int64) (ss []model.ParkingSpot, err error) {
	defer r.track(model.KindSpot, opList, time.Now(), &err)
	if err = requireLot(ctx, r.lots, lotID); err != nil {
		return nil, err
	}
	return list(ctx, r.spots, model.KindSpot, store.Eq("lot_id", lotID))
}
