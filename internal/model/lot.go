package model

import "gopkg.in/guregu/null.v4"

// Lot represents a parking facility (a "playa"). It corresponds to a row in
// the `playas` table. Spots, schedules and accepted payment methods all
// reference a lot through its ID.
//
// Fields:
//  ID          – surrogate primary key generated by the store.
//  Province    – province where the lot is located.
//  City        – city where the lot is located.
//  Address     – street address.
//  FloorType   – surface of the lot (e.g. concrete, gravel).
//  Rating      – average rating; null until the lot has been rated.
//  RequiresKey – whether drivers must leave their car keys.
type Lot struct {
	ID          int64      `json:"id"`           // playas.id
	Province    string     `json:"province"`     // playas.province
	City        string     `json:"city"`         // playas.city
	Address     string     `json:"address"`      // playas.address
	FloorType   string     `json:"floor_type"`   // playas.floor_type
	Rating      null.Float `json:"rating"`       // playas.rating (nullable)
	RequiresKey bool       `json:"requires_key"` // playas.requires_key
}

// Key returns the lot identity.
func (l Lot) Key() IDKey { return IDKey(l.ID) }

// Label is the human-readable name of the lot used wherever a lot is
// referenced: its city and address.
func (l Lot) Label() string { return l.City + ", " + l.Address }
