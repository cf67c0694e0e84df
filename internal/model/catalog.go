package model

// PaymentMethod is a catalog entry (cash, debit card, ...) that a lot may be
// configured to accept.
type PaymentMethod struct {
	ID          int64  `json:"id"          yaml:"id"`          // metodos_pago.id
	Name        string `json:"name"        yaml:"name"`        // metodos_pago.name (unique)
	Description string `json:"description" yaml:"description"` // metodos_pago.description
}

// DayClassification is a catalog entry describing a category of days
// (weekday, weekend, holiday) used to scope a schedule.
type DayClassification struct {
	ID          int64  `json:"id"          yaml:"id"`          // clasificaciones_dia.id
	Name        string `json:"name"        yaml:"name"`        // clasificaciones_dia.name (unique)
	Description string `json:"description" yaml:"description"` // clasificaciones_dia.description
}
