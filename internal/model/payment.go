package model

import "time"

// Payment records money collected at a lot through one of its accepted
// payment methods. Only the columns needed to reference the accepted method
// are modelled here.
type Payment struct {
	ID              int64     `json:"id"`                // pagos.id
	LotID           int64     `json:"lot_id"`            // pagos.lot_id
	PaymentMethodID int64     `json:"payment_method_id"` // pagos.payment_method_id
	AmountCents     int64     `json:"amount_cents"`      // pagos.amount_cents
	PaidAt          time.Time `json:"paid_at"`           // pagos.paid_at
}
