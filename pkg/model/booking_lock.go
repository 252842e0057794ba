package model

import "time"

// BookingLock is an advisory lock serializing booking admission per unit.
// The _id is derived from the unit id, so a concurrent admission for the
// same unit fails the insert with a duplicate key error.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
