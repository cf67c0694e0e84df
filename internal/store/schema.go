package store

import (
	"database/sql"
	"time"

	"github.com/iliyamo/parking-registry/internal/model"
)

// OnDelete is the policy applied to referencing rows when a parent is deleted.
type OnDelete int

const (
	Restrict OnDelete = iota
	Cascade
)

func (o OnDelete) String() string {
	if o == Cascade {
		return "cascade"
	}
	return "restrict"
}

// Unique is a unique index outside the primary key.
type Unique struct {
	Name    string
	Columns []string
}

// ForeignKey references RefTable's primary key. Columns are matched against
// the referenced key columns in order.
type ForeignKey struct {
	Name     string
	Columns  []string
	RefTable string
	OnDelete OnDelete
}

// Schema describes how an entity kind maps onto a table. Columns lists every
// column in storage order; when AutoIncrement is set the first column is the
// generated single-column key.
type Schema[K any, V any] struct {
	Table         string
	Key           []string
	Columns       []string
	AutoIncrement bool
	Uniques       []Unique
	ForeignKeys   []ForeignKey
	OrderBy       []string

	Values    func(V) []any
	KeyValues func(K) []any
	Scan      func(scan func(dest ...any) error) (V, error)
	WithID    func(V, int64) V
}

// HasColumn reports whether name is one of the schema's columns.
func (s Schema[K, V]) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Constraint names shared by migrations and every backend.
const (
	FKSpotLot               = "fk_plazas_playa"
	FKAcceptedLot           = "fk_amp_playa"
	FKAcceptedPaymentMethod = "fk_amp_metodo_pago"
	FKScheduleLot           = "fk_horarios_playa"
	FKScheduleDay           = "fk_horarios_clasificacion"
	FKPaymentAccepted       = "fk_pagos_amp"
	UniqueUserEmail         = "uq_usuarios_email"
	UniquePaymentMethodName = "uq_metodos_pago_name"
	UniqueDayClassification = "uq_clasificaciones_dia_name"
)

// Table names.
const (
	TableLots               = "playas"
	TableSpots              = "plazas"
	TablePaymentMethods     = "metodos_pago"
	TableDayClassifications = "clasificaciones_dia"
	TableAcceptedMethods    = "acepta_metodo_pago"
	TableSchedules          = "horarios"
	TableUsers              = "usuarios"
	TablePayments           = "pagos"
)

func idKey(id int64) []any { return []any{id} }

var LotSchema = Schema[int64, model.Lot]{
	Table:         TableLots,
	Key:           []string{"id"},
	Columns:       []string{"id", "province", "city", "address", "floor_type", "rating", "requires_key"},
	AutoIncrement: true,
	OrderBy:       []string{"city", "address", "id"},
	Values: func(l model.Lot) []any {
		return []any{l.ID, l.Province, l.City, l.Address, l.FloorType, l.Rating, l.RequiresKey}
	},
	KeyValues: idKey,
	Scan: func(scan func(...any) error) (model.Lot, error) {
		var l model.Lot
		err := scan(&l.ID, &l.Province, &l.City, &l.Address, &l.FloorType, &l.Rating, &l.RequiresKey)
		return l, err
	},
	WithID: func(l model.Lot, id int64) model.Lot { l.ID = id; return l },
}

var SpotSchema = Schema[model.SpotKey, model.ParkingSpot]{
	Table:   TableSpots,
	Key:     []string{"lot_id", "number"},
	Columns: []string{"lot_id", "number", "covered", "max_height"},
	ForeignKeys: []ForeignKey{
		{Name: FKSpotLot, Columns: []string{"lot_id"}, RefTable: TableLots, OnDelete: Cascade},
	},
	OrderBy: []string{"lot_id", "number"},
	Values: func(s model.ParkingSpot) []any {
		return []any{s.LotID, s.Number, s.Covered, s.MaxHeight}
	},
	KeyValues: func(k model.SpotKey) []any { return []any{k.LotID, k.Number} },
	Scan: func(scan func(...any) error) (model.ParkingSpot, error) {
		var s model.ParkingSpot
		err := scan(&s.LotID, &s.Number, &s.Covered, &s.MaxHeight)
		return s, err
	},
}

var PaymentMethodSchema = Schema[int64, model.PaymentMethod]{
	Table:         TablePaymentMethods,
	Key:           []string{"id"},
	Columns:       []string{"id", "name", "description"},
	AutoIncrement: true,
	Uniques:       []Unique{{Name: UniquePaymentMethodName, Columns: []string{"name"}}},
	OrderBy:       []string{"name", "id"},
	Values: func(m model.PaymentMethod) []any {
		return []any{m.ID, m.Name, m.Description}
	},
	KeyValues: idKey,
	Scan: func(scan func(...any) error) (model.PaymentMethod, error) {
		var m model.PaymentMethod
		err := scan(&m.ID, &m.Name, &m.Description)
		return m, err
	},
	WithID: func(m model.PaymentMethod, id int64) model.PaymentMethod { m.ID = id; return m },
}

var DayClassificationSchema = Schema[int64, model.DayClassification]{
	Table:         TableDayClassifications,
	Key:           []string{"id"},
	Columns:       []string{"id", "name", "description"},
	AutoIncrement: true,
	Uniques:       []Unique{{Name: UniqueDayClassification, Columns: []string{"name"}}},
	OrderBy:       []string{"name", "id"},
	Values: func(d model.DayClassification) []any {
		return []any{d.ID, d.Name, d.Description}
	},
	KeyValues: idKey,
	Scan: func(scan func(...any) error) (model.DayClassification, error) {
		var d model.DayClassification
		err := scan(&d.ID, &d.Name, &d.Description)
		return d, err
	},
	WithID: func(d model.DayClassification, id int64) model.DayClassification { d.ID = id; return d },
}

var AcceptedMethodSchema = Schema[model.AcceptedMethodKey, model.AcceptedPaymentMethod]{
	Table:   TableAcceptedMethods,
	Key:     []string{"lot_id", "payment_method_id"},
	Columns: []string{"lot_id", "payment_method_id", "enabled"},
	ForeignKeys: []ForeignKey{
		{Name: FKAcceptedLot, Columns: []string{"lot_id"}, RefTable: TableLots, OnDelete: Cascade},
		{Name: FKAcceptedPaymentMethod, Columns: []string{"payment_method_id"}, RefTable: TablePaymentMethods, OnDelete: Restrict},
	},
	OrderBy: []string{"lot_id", "payment_method_id"},
	Values: func(a model.AcceptedPaymentMethod) []any {
		return []any{a.LotID, a.PaymentMethodID, a.Enabled}
	},
	KeyValues: func(k model.AcceptedMethodKey) []any { return []any{k.LotID, k.PaymentMethodID} },
	Scan: func(scan func(...any) error) (model.AcceptedPaymentMethod, error) {
		var a model.AcceptedPaymentMethod
		err := scan(&a.LotID, &a.PaymentMethodID, &a.Enabled)
		return a, err
	},
}

var ScheduleSchema = Schema[model.ScheduleKey, model.Schedule]{
	Table:   TableSchedules,
	Key:     []string{"lot_id", "day_classification_id", "start_at"},
	Columns: []string{"lot_id", "day_classification_id", "start_at", "end_at"},
	ForeignKeys: []ForeignKey{
		{Name: FKScheduleLot, Columns: []string{"lot_id"}, RefTable: TableLots, OnDelete: Cascade},
		{Name: FKScheduleDay, Columns: []string{"day_classification_id"}, RefTable: TableDayClassifications, OnDelete: Restrict},
	},
	OrderBy: []string{"lot_id", "day_classification_id", "start_at"},
	Values: func(s model.Schedule) []any {
		return []any{s.LotID, s.DayClassificationID, model.NormalizeStart(s.Start), model.NormalizeStart(s.End)}
	},
	KeyValues: func(k model.ScheduleKey) []any {
		return []any{k.LotID, k.DayClassificationID, model.NormalizeStart(k.Start)}
	},
	Scan: func(scan func(...any) error) (model.Schedule, error) {
		var s model.Schedule
		var start, end time.Time
		if err := scan(&s.LotID, &s.DayClassificationID, &start, &end); err != nil {
			return s, err
		}
		s.Start, s.End = start.UTC(), end.UTC()
		return s, nil
	},
}

var UserSchema = Schema[int64, model.UserRecord]{
	Table:         TableUsers,
	Key:           []string{"id"},
	Columns:       []string{"id", "name", "email", "password_hash", "phone", "role", "tax_id"},
	AutoIncrement: true,
	Uniques:       []Unique{{Name: UniqueUserEmail, Columns: []string{"email"}}},
	OrderBy:       []string{"name", "id"},
	Values: func(u model.UserRecord) []any {
		tax := sql.NullString{String: u.TaxID, Valid: u.Role == model.RoleOwner}
		return []any{u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, string(u.Role), tax}
	},
	KeyValues: idKey,
	Scan: func(scan func(...any) error) (model.UserRecord, error) {
		var u model.UserRecord
		var role string
		var tax sql.NullString
		if err := scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &role, &tax); err != nil {
			return u, err
		}
		u.Role = model.Role(role)
		u.TaxID = tax.String
		return u, nil
	},
	WithID: func(u model.UserRecord, id int64) model.UserRecord { u.ID = id; return u },
}

var PaymentSchema = Schema[int64, model.Payment]{
	Table:         TablePayments,
	Key:           []string{"id"},
	Columns:       []string{"id", "lot_id", "payment_method_id", "amount_cents", "paid_at"},
	AutoIncrement: true,
	ForeignKeys: []ForeignKey{
		{Name: FKPaymentAccepted, Columns: []string{"lot_id", "payment_method_id"}, RefTable: TableAcceptedMethods, OnDelete: Restrict},
	},
	OrderBy: []string{"paid_at", "id"},
	Values: func(p model.Payment) []any {
		return []any{p.ID, p.LotID, p.PaymentMethodID, p.AmountCents, p.PaidAt.UTC().Truncate(time.Second)}
	},
	KeyValues: idKey,
	Scan: func(scan func(...any) error) (model.Payment, error) {
		var p model.Payment
		err := scan(&p.ID, &p.LotID, &p.PaymentMethodID, &p.AmountCents, &p.PaidAt)
		p.PaidAt = p.PaidAt.UTC()
		return p, err
	},
	WithID: func(p model.Payment, id int64) model.Payment { p.ID = id; return p },
}
