package repository

import (
	"context"
	"errors"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// The guard runs before a write and is not atomic with it. A concurrent
// writer can still slip in between; the store's primary key or unique index
// then rejects the write and translate reports the same ValidationError.

// CheckUnique rejects key when a record of kind already holds it. The
// conflict is reported on the last key field, the one the caller chooses
// within its parent (the spot number, the payment method, the start time).
func CheckUnique[K any, V any](ctx context.Context, t store.Table[K, V], kind model.Kind, key K, input any) error {
	_, err := t.Get(ctx, key)
	switch {
	case err == nil:
		return invalid(kind, conflictField(kind), input, "already exists")
	case errors.Is(err, store.ErrNotFound):
		return nil
	}
	return translate(kind, opRead, input, err)
}

// checkColumnFree rejects value when another record of kind already holds it
// in column. isSelf excludes the record being updated.
func checkColumnFree[K any, V any](ctx context.Context, t store.Table[K, V], kind model.Kind, column string, value any, isSelf func(V) bool, msg string) error {
	rows, err := t.List(ctx, store.Query{Where: []store.Cond{store.Eq(column, value)}})
	if err != nil {
		return translate(kind, opRead, value, err)
	}
	for _, r := range rows {
		if isSelf == nil || !isSelf(r) {
			return invalid(kind, column, value, msg)
		}
	}
	return nil
}

// CheckEmail rejects email when any user other than self holds it. Owners and
// drivers are partitions of the same user rows, so one lookup covers both
// subtypes. Pass self = 0 on create.
func CheckEmail(ctx context.Context, users store.Table[int64, model.UserRecord], email string, self int64) error {
	return checkColumnFree(ctx, users, model.KindUser, "email", email,
		func(u model.UserRecord) bool { return u.ID == self }, msgEmailTaken)
}

const msgEmailTaken = "is already registered"

func conflictField(kind model.Kind) string {
	f := model.KeyFields(kind)
	if len(f) == 0 {
		return "id"
	}
	return f[len(f)-1]
}
