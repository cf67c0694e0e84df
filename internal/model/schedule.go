package model

import "time"

// Schedule is an opening window of a lot for a day classification, keyed by
// its exact start instant. Overlapping windows with different starts are
// accepted.
type Schedule struct {
	LotID               int64     `json:"lot_id"`                // horarios.lot_id
	DayClassificationID int64     `json:"day_classification_id"` // horarios.day_classification_id
	Start               time.Time `json:"start"`                 // horarios.start_at
	End                 time.Time `json:"end"`                   // horarios.end_at
}

// Key returns the composite identity of the schedule. Start is normalized so
// that keys built from differently-zoned but equal instants compare equal.
func (s Schedule) Key() ScheduleKey {
	return ScheduleKey{LotID: s.LotID, DayClassificationID: s.DayClassificationID, Start: NormalizeStart(s.Start)}
}
