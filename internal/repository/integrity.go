package repository

import (
	"errors"

	"github.com/iliyamo/parking-registry/internal/model"
	"github.com/iliyamo/parking-registry/internal/store"
)

// Relationship is a foreign key between two kinds together with the causes
// reported when it blocks a write.
type Relationship struct {
	Parent     model.Kind
	Child      model.Kind
	Constraint string
	OnDelete   store.OnDelete
	// DeleteCause is reported when deleting the parent is blocked.
	DeleteCause string
	// MissingCause is reported when a child references a parent that does
	// not exist.
	MissingCause string
}

// Relationships lists every foreign key in the schema.
var Relationships = []Relationship{
	{
		Parent: model.KindLot, Child: model.KindSpot,
		Constraint: store.FKSpotLot, OnDelete: store.Cascade,
		DeleteCause:  "cannot delete: the lot still has parking spots",
		MissingCause: "lot does not exist",
	},
	{
		Parent: model.KindLot, Child: model.KindAcceptedMethod,
		Constraint: store.FKAcceptedLot, OnDelete: store.Cascade,
		DeleteCause:  "cannot delete: the lot still accepts payment methods",
		MissingCause: "lot does not exist",
	},
	{
		Parent: model.KindLot, Child: model.KindSchedule,
		Constraint: store.FKScheduleLot, OnDelete: store.Cascade,
		DeleteCause:  "cannot delete: the lot still has schedules",
		MissingCause: "lot does not exist",
	},
	{
		Parent: model.KindPaymentMethod, Child: model.KindAcceptedMethod,
		Constraint: store.FKAcceptedPaymentMethod, OnDelete: store.Restrict,
		DeleteCause:  "cannot delete: lots accept this payment method",
		MissingCause: "payment method does not exist",
	},
	{
		Parent: model.KindDayClassification, Child: model.KindSchedule,
		Constraint: store.FKScheduleDay, OnDelete: store.Restrict,
		DeleteCause:  "cannot delete: schedules use this day classification",
		MissingCause: "day classification does not exist",
	},
	{
		Parent: model.KindAcceptedMethod, Child: model.KindPayment,
		Constraint: store.FKPaymentAccepted, OnDelete: store.Restrict,
		DeleteCause:  "cannot delete: payments exist using this method at this lot",
		MissingCause: "payment method is not accepted at this lot",
	},
}

// RelationshipFor looks a relationship up by constraint name.
func RelationshipFor(constraint string) (Relationship, bool) {
	for _, r := range Relationships {
		if r.Constraint == constraint {
			return r, true
		}
	}
	return Relationship{}, false
}

// uniqueFields maps unique indexes outside the primary key to the field and
// message they are reported with.
var uniqueFields = map[string]struct{ field, msg string }{
	store.UniqueUserEmail:         {"email", msgEmailTaken},
	store.UniquePaymentMethodName: {"name", "already exists"},
	store.UniqueDayClassification: {"name", "already exists"},
}

const (
	opCreate = "create"
	opRead   = "read"
	opUpdate = "update"
	opDelete = "delete"
	opList   = "list"
)

// translate is the single place store failures become repository errors.
// Unique violations become the ValidationError the guard would have
// produced, foreign key violations an IntegrityError with the relationship's
// cause, and anything else an UnavailableError. store.ErrNotFound is left to
// callers, which know the key to report.
func translate(kind model.Kind, op string, input any, err error) error {
	if err == nil {
		return nil
	}
	ce, ok := store.AsConstraint(err)
	if !ok {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return &UnavailableError{Op: op + " " + string(kind), Err: err}
	}

	switch ce.Kind {
	case store.UniqueViolation:
		if u, ok := uniqueFields[ce.Constraint]; ok {
			return &ValidationError{Kind: kind, Field: u.field, Input: input, Message: u.msg}
		}
		return &ValidationError{Kind: kind, Field: conflictField(kind), Input: input, Message: "already exists"}
	case store.ForeignKeyViolation:
		cause := "conflicting references"
		if r, ok := RelationshipFor(ce.Constraint); ok {
			if op == opDelete {
				cause = r.DeleteCause
			} else {
				cause = r.MissingCause
			}
		}
		return &IntegrityError{Kind: kind, Cause: cause, Err: err}
	}
	return &UnavailableError{Op: op + " " + string(kind), Err: err}
}
