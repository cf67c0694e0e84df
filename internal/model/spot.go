package model

// ParkingSpot is an individually numbered space inside a lot (a "plaza").
// Number is assigned by the caller and is unique only within its lot.
type ParkingSpot struct {
	LotID     int64   `json:"lot_id"`     // plazas.lot_id
	Number    int     `json:"number"`     // plazas.number
	Covered   bool    `json:"covered"`    // plazas.covered
	MaxHeight float64 `json:"max_height"` // plazas.max_height, metres; 0 when unrestricted
}

// Key returns the composite identity of the spot.
func (s ParkingSpot) Key() SpotKey { return SpotKey{LotID: s.LotID, Number: s.Number} }
