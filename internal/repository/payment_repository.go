package repository

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/parking-registry/internal/events"
	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// PaymentRepo records payments collected at a lot. Each payment references
// the lot's accepted payment method, which keeps that association from being
// deleted.
type PaymentRepo struct {
	base
	payments store.Table[int64, model.Payment]
	accepted store.Table[model.AcceptedMethodKey, model.AcceptedPaymentMethod]
	lots     store.Table[int64, model.Lot]
}

// NewPaymentRepo constructs a PaymentRepo over s.
func NewPaymentRepo(s *store.Store, opts ...Option) *PaymentRepo {
	return &PaymentRepo{base: newBase(opts), payments: s.Payments, accepted: s.AcceptedMethods, lots: s.Lots}
}

func (r *PaymentRepo) validate(ctx context.Context, p model.Payment) error {
	if p.AmountCents <= 0 {
		return invalid(model.KindPayment, "amount_cents", p.AmountCents, "must be positive")
	}
	a, err := r.accepted.Get(ctx, model.AcceptedMethodKey{LotID: p.LotID, PaymentMethodID: p.PaymentMethodID})
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Left to the foreign key, which reports the missing association.
		return nil
	case err != nil:
		return translate(model.KindPayment, opRead, nil, err)
	case !a.Enabled:
		return invalid(model.KindPayment, "payment_method_id", p.PaymentMethodID, "is disabled at this lot")
	}
	return nil
}

// Create records p under a newly generated ID. A zero PaidAt is set to now.
func (r *PaymentRepo) Create(ctx context.Context, p model.Payment) (out model.Payment, err error) {
	defer r.track(model.KindPayment, opCreate, time.Now(), &err)
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	p.ID = 0
	p.PaidAt = p.PaidAt.UTC().Truncate(time.Second)
	if err = r.validate(ctx, p); err != nil {
		return p, err
	}
	if out, err = r.payments.Insert(ctx, p); err != nil {
		return p, translate(model.KindPayment, opCreate, p.PaymentMethodID, err)
	}
	r.emit(ctx, model.KindPayment, events.OpCreate, model.IDKey(out.ID))
	return out, nil
}

// Get returns payment id.
func (r *PaymentRepo) Get(ctx context.Context, id int64) (p model.Payment, err error) {
	defer r.track(model.KindPayment, opRead, time.Now(), &err)
	return get(ctx, r.payments, model.KindPayment, id, model.IDKey(id))
}

// Update corrects the amount, time or method of payment id. Unlike Create,
// the payment time is required.
func (r *PaymentRepo) Update(ctx context.Context, id int64, p model.Payment) (err error) {
	defer r.track(model.KindPayment, opUpdate, time.Now(), &err)
	if err = CheckKeyUnchanged(model.KindPayment, model.IDKey(id), model.IDKey(p.ID)); err != nil {
		return err
	}
	if p.PaidAt.IsZero() {
		return invalid(model.KindPayment, "paid_at", p.PaidAt, "is required")
	}
	p.PaidAt = p.PaidAt.UTC().Truncate(time.Second)
	if err = r.validate(ctx, p); err != nil {
		return err
	}
	if err = update(ctx, r.payments, model.KindPayment, p, model.IDKey(id), p.PaymentMethodID); err != nil {
		return err
	}
	r.emit(ctx, model.KindPayment, events.OpUpdate, model.IDKey(id))
	return nil
}

// Delete removes payment id.
func (r *PaymentRepo) Delete(ctx context.Context, id int64) (err error) {
	defer r.track(model.KindPayment, opDelete, time.Now(), &err)
	if err = remove(ctx, r.payments, model.KindPayment, id, model.IDKey(id)); err != nil {
		return err
	}
	r.emit(ctx, model.KindPayment, events.OpDelete, model.IDKey(id))
	return nil
}

// List returns every payment ordered by time.
func (r *PaymentRepo) List(ctx context.Context) (ps []model.Payment, err error) {
	defer r.track(model.KindPayment, opList, time.Now(), &err)
	return list(ctx, r.payments, model.KindPayment)
}

// ListByLot returns the payments collected at one lot.
func (r *PaymentRepo) ListByLot(ctx context.Context, lotID int64) (ps []model.Payment, err error) {
	defer r.track(model.KindPayment, opList, time.Now(), &err)
	if err = requireLot(ctx, r.lots, lotID); err != nil {
		return nil, err
	}
	return list(ctx, r.payments, model.KindPayment, store.Eq("lot_id", lotID))
}
