package model

// AcceptedPaymentMethod associates a lot with a catalog payment method. At
// most one row exists per (lot, method) pair. Payments reference it, which
// blocks its deletion while payments exist.
type AcceptedPaymentMethod struct {
	LotID           int64 `json:"lot_id"`            // acepta_metodo_pago.lot_id
	PaymentMethodID int64 `json:"payment_method_id"` // acepta_metodo_pago.payment_method_id
	Enabled         bool  `json:"enabled"`           // acepta_metodo_pago.enabled
}

// Key returns the composite identity of the association.
func (a AcceptedPaymentMethod) Key() AcceptedMethodKey {
	return AcceptedMethodKey{LotID: a.LotID, PaymentMethodID: a.PaymentMethodID}
}
