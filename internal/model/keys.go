package model

import (
	"fmt"
	"time"
)

// Kind names an entity kind. It is used by the key policy, by error values and
// by metrics labels, so the values double as stable identifiers.
type Kind string

const (
	KindLot               Kind = "lot"
	KindSpot              Kind = "parking_spot"
	KindPaymentMethod     Kind = "payment_method"
	KindDayClassification Kind = "day_classification"
	KindAcceptedMethod    Kind = "accepted_payment_method"
	KindSchedule          Kind = "schedule"
	KindUser              Kind = "user"
	KindPayment           Kind = "payment"
)

// keyFields lists, in order, the fields forming each kind's identity.
var keyFields = map[Kind][]string{
	KindLot:               {"id"},
	KindSpot:              {"lot_id", "number"},
	KindPaymentMethod:     {"id"},
	KindDayClassification: {"id"},
	KindAcceptedMethod:    {"lot_id", "payment_method_id"},
	KindSchedule:          {"lot_id", "day_classification_id", "start"},
	KindUser:              {"id"},
	KindPayment:           {"id"},
}

// KeyFields returns the ordered identity fields of kind k. The returned slice
// is a copy and may be modified by the caller.
func KeyFields(k Kind) []string {
	return append([]string(nil), keyFields[k]...)
}

// IsComposite reports whether kind k is identified by more than one field.
func IsComposite(k Kind) bool { return len(keyFields[k]) > 1 }

// SpotKey identifies a parking spot. Number is only unique inside its lot.
type SpotKey struct {
	LotID  int64
	Number int
}

func (k SpotKey) String() string { return fmt.Sprintf("%d/%d", k.LotID, k.Number) }

// AcceptedMethodKey identifies the association between a lot and a catalog
// payment method.
type AcceptedMethodKey struct {
	LotID           int64
	PaymentMethodID int64
}

func (k AcceptedMethodKey) String() string {
	return fmt.Sprintf("%d/%d", k.LotID, k.PaymentMethodID)
}

// ScheduleKey identifies a schedule row. Start is part of the identity, so two
// schedules with different start instants never collide even if their ranges
// overlap.
type ScheduleKey struct {
	LotID               int64
	DayClassificationID int64
	Start               time.Time
}

func (k ScheduleKey) String() string {
	return fmt.Sprintf("%d/%d/%s", k.LotID, k.DayClassificationID, k.Start.UTC().Format(time.RFC3339))
}

// NormalizeStart converts t to the canonical form stored in schedule keys:
// UTC with second precision (the precision of a DATETIME column).
func NormalizeStart(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// IDKey renders a surrogate integer identity the same way composite keys are
// rendered, so every kind can be compared through its string form.
type IDKey int64

func (k IDKey) String() string { return fmt.Sprintf("%d", int64(k)) }
