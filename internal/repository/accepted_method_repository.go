package repository

import (
	"context"
	"time"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// AcceptedMethodDetail is an accepted payment method with its lot and catalog
// entry resolved.
type AcceptedMethodDetail struct {
	model.AcceptedPaymentMethod
	Lot    model.Lot           `json:"lot"`
	Method model.PaymentMethod `json:"method"`
}

// AcceptedMethodRepo manages which catalog payment methods each lot accepts.
// A method with recorded payments cannot be removed from its lot.
type AcceptedMethodRepo struct {
	base
	accepted store.Table[model.AcceptedMethodKey, model.AcceptedPaymentMethod]
	lots     store.Table[int64, model.Lot]
	methods  store.Table[int64, model.PaymentMethod]
}

// NewAcceptedMethodRepo constructs an AcceptedMethodRepo over s.
func NewAcceptedMethodRepo(s *store.Store, opts ...Option) *AcceptedMethodRepo {
	return &AcceptedMethodRepo{base: newBase(opts), accepted: s.AcceptedMethods, lots: s.Lots, methods: s.PaymentMethods}
}

// Create records that a lot accepts a payment method.
func (r *AcceptedMethodRepo) Create(ctx context.Context, a model.AcceptedPaymentMethod) (err error) {
	defer r.track(model.KindAcceptedMethod, opCreate, time.Now(), &err)
	if err = CheckUnique(ctx, r.accepted, model.KindAcceptedMethod, a.Key(), a.PaymentMethodID); err != nil {
		return err
	}
	if _, err = r.accepted.Insert(ctx, a); err != nil {
		return translate(model.KindAcceptedMethod, opCreate, a.PaymentMethodID, err)
	}
	r.emit(ctx, model.KindAcceptedMethod, events.OpCreate, a.Key())
	return nil
}

// Get returns the association identified by k.
func (r *AcceptedMethodRepo) Get(ctx context.Context, k model.AcceptedMethodKey) (a model.AcceptedPaymentMethod, err error) {
	defer r.track(model.KindAcceptedMethod, opRead, time.Now(), &err)
	return get(ctx, r.accepted, model.KindAcceptedMethod, k, k)
}

// GetDetail returns the association identified by k with its lot and
// payment method.
func (r *AcceptedMethodRepo) GetDetail(ctx context.Context, k model.AcceptedMethodKey) (d AcceptedMethodDetail, err error) {
	defer r.track(model.KindAcceptedMethod, opRead, time.Now(), &err)
	if d.AcceptedPaymentMethod, err = get(ctx, r.accepted, model.KindAcceptedMethod, k, k); err != nil {
		return d, err
	}
	if d.Lot, err = get(ctx, r.lots, model.KindLot, k.LotID, model.IDKey(k.LotID)); err != nil {
		return d, err
	}
	d.Method, err = get(ctx, r.methods, model.KindPaymentMethod, k.PaymentMethodID, model.IDKey(k.PaymentMethodID))
	return d, err
}

// Update changes the enabled flag of association k.
func (r *AcceptedMethodRepo) Update(ctx context.Context, k model.AcceptedMethodKey, a model.AcceptedPaymentMethod) (err error) {
	defer r.track(model.KindAcceptedMethod, opUpdate, time.Now(), &err)
	if err = CheckKeyUnchanged(model.KindAcceptedMethod, k, a.Key()); err != nil {
		return err
	}
	if err = update(ctx, r.accepted, model.KindAcceptedMethod, a, k, a.PaymentMethodID); err != nil {
		return err
	}
	r.emit(ctx, model.KindAcceptedMethod, events.OpUpdate, k)
	return nil
}

// Delete removes association k. It fails with an IntegrityError while
// payments reference it.
func (r *AcceptedMethodRepo) Delete(ctx context.Context, k model.AcceptedMethodKey) (err error) {
	defer r.track(model.KindAcceptedMethod, opDelete, time.Now(), &err)
	if err = remove(ctx, r.accepted, model.KindAcceptedMethod, k, k); err != nil {
		return err
	}
	r.emit(ctx, model.KindAcceptedMethod, events.OpDelete, k)
	return nil
}

// List returns every association ordered by lot and payment method.
func (r *AcceptedMethodRepo) List(ctx context.Context) (as []model.AcceptedPaymentMethod, err error) {
	defer r.track(model.KindAcceptedMethod, opList, time.Now(), &err)
	return list(ctx, r.accepted, model.KindAcceptedMethod)
}

// ListByLot returns the payment methods accepted by one lot.
func (r *AcceptedMethodRepo) ListByLot(ctx context.Context, lotID int64) (as []model.AcceptedPaymentMethod, err error) {
	defer r.track(model.KindAcceptedMethod, opList, time.Now(), &err)
	if err = requireLot(ctx, r.lots, lotID); err != nil {
		return nil, err
	}
	return list(ctx, r.accepted, model.KindAcceptedMethod, store.Eq("lot_id", lotID))
}
