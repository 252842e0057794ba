package model

import "time"

type StorageUnit struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Size        string    `json:"size" bson:"size" validate:"required,min=1,max=50"`
	Location    string    `json:"location" bson:"location" validate:"required,min=2,max=100"`
	PricePerDay float64   `json:"price_per_day" bson:"price_per_day" validate:"min=0"`
	IsAvailable bool      `json:"is_available" bson:"is_available"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type StorageUnitUpdate struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Size        string   `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Location    string   `json:"location,omitempty" validate:"omitempty,min=2,max=100"`
	PricePerDay *float64 `json:"price_per_day,omitempty" validate:"omitempty,min=0"`
	IsAvailable *bool    `json:"is_available,omitempty"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UnitFilter narrows GetAll listings. Zero values mean "no constraint".
type UnitFilter struct {
	Location  string
	Available *bool
	MinPrice  *float64
	MaxPrice  *float64
	Size      string
}
