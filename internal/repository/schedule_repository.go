package repository

import (
	"context"
	"time"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// ScheduleDetail is a schedule with its lot and day classification resolved.
type ScheduleDetail struct {
	model.Schedule
	Lot model.Lot               `json:"lot"`
	Day model.DayClassification `json:"day_classification"`
}

// ScheduleRepo manages lot schedules keyed by (lot, day classification,
// start). Only exact key collisions are rejected: two windows with different
// starts may overlap.
type ScheduleRepo struct {
	base
	schedules store.Table[model.ScheduleKey, model.Schedule]
	lots      store.Table[int64, model.Lot]
	days      store.Table[int64, model.DayClassification]
}

// NewScheduleRepo constructs a ScheduleRepo over s.
func NewScheduleRepo(s *store.Store, opts ...Option) *ScheduleRepo {
	return &ScheduleRepo{base: newBase(opts), schedules: s.Schedules, lots: s.Lots, days: s.DayClassifications}
}

func normalizeSchedule(s model.Schedule) model.Schedule {
	s.Start = model.NormalizeStart(s.Start)
	s.End = model.NormalizeStart(s.End)
	return s
}

func validateSchedule(s model.Schedule) error {
	if s.Start.IsZero() {
		return invalid(model.KindSchedule, "start", s.Start, "is required")
	}
	if !s.End.After(s.Start) {
		return invalid(model.KindSchedule, "end", s.End, "must be after start")
	}
	return nil
}

// Create stores s. Start and End are stored in UTC with second precision.
func (r *ScheduleRepo) Create(ctx context.Context, s model.Schedule) (out model.Schedule, err error) {
	defer r.track(model.KindSchedule, opCreate, time.Now(), &err)
	s = normalizeSchedule(s)
	if err = validateSchedule(s); err != nil {
		return s, err
	}
	if err = CheckUnique(ctx, r.schedules, model.KindSchedule, s.Key(), s.Start); err != nil {
		return s, err
	}
	if _, err = r.schedules.Insert(ctx, s); err != nil {
		return s, translate(model.KindSchedule, opCreate, s.Start, err)
	}
	r.emit(ctx, model.KindSchedule, events.OpCreate, s.Key())
	return s, nil
}

// Get returns the schedule identified by k.
func (r *ScheduleRepo) Get(ctx context.Context, k model.ScheduleKey) (s model.Schedule, err error) {
	defer r.track(model.KindSchedule, opRead, time.Now(), &err)
	k.Start = model.NormalizeStart(k.Start)
	return get(ctx, r.schedules, model.KindSchedule, k, k)
}

// GetDetail returns the schedule identified by k with its lot and day
// classification.
func (r *ScheduleRepo) GetDetail(ctx context.Context, k model.ScheduleKey) (d ScheduleDetail, err error) {
	defer r.track(model.KindSchedule, opRead, time.Now(), &err)
	k.Start = model.NormalizeStart(k.Start)
	if d.Schedule, err = get(ctx, r.schedules, model.KindSchedule, k, k); err != nil {
		return d, err
	}
	if d.Lot, err = get(ctx, r.lots, model.KindLot, k.LotID, model.IDKey(k.LotID)); err != nil {
		return d, err
	}
	d.Day, err = get(ctx, r.days, model.KindDayClassification, k.DayClassificationID, model.IDKey(k.DayClassificationID))
	return d, err
}

// Update changes the end of schedule k.
func (r *ScheduleRepo) Update(ctx context.Context, k model.ScheduleKey, s model.Schedule) (err error) {
	defer r.track(model.KindSchedule, opUpdate, time.Now(), &err)
	k.Start = model.NormalizeStart(k.Start)
	s = normalizeSchedule(s)
	if err = CheckKeyUnchanged(model.KindSchedule, k, s.Key()); err != nil {
		return err
	}
	if err = validateSchedule(s); err != nil {
		return err
	}
	if err = update(ctx, r.schedules, model.KindSchedule, s, k, s.Start); err != nil {
		return err
	}
	r.emit(ctx, model.KindSchedule, events.OpUpdate, k)
	return nil
}

// Delete removes schedule k.
func (r *ScheduleRepo) Delete(ctx context.Context, k model.ScheduleKey) (err error) {
	defer r.track(model.KindSchedule, opDelete, time.Now(), &err)
	k.Start = model.NormalizeStart(k.Start)
	if err = remove(ctx, r.schedules, model.KindSchedule, k, k); err != nil {
		return err
	}
	r.emit(ctx, model.KindSchedule, events.OpDelete, k)
	return nil
}

// List returns every schedule ordered by lot, day classification and start.
func (r *ScheduleRepo) List(ctx context.Context) (ss []model.Schedule, err error) {
	defer r.track(model.KindSchedule, opList, time.Now(), &err)
	return list(ctx, r.schedules, model.KindSchedule)
}

// ListByLot returns the schedules of one lot.
func (r *ScheduleRepo) ListByLot(ctx context.Context, lotID int64) (ss []model.Schedule, err error) {
	defer r.track(model.KindSchedule, opList, time.Now(), &err)
	if err = requireLot(ctx, r.lots, lotID); err != nil {
		return nil, err
	}
	return list(ctx, r.schedules, model.KindSchedule, store.Eq("lot_id", lotID))
}
