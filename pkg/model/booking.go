package model

import "time"

// Booking statuses. Upcoming, active and completed are derived from time;
// cancelled is a terminal state set only by explicit cancellation.
const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Booking reserves one storage unit for an inclusive calendar date range.
// Unit, dates, user and cost are fixed at creation; only status changes.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UnitID    string    `json:"unit_id" bson:"unit_id" validate:"required,mongodb"`
	UserName  string    `json:"user_name" bson:"user_name" validate:"required,min=1,max=255"`
	StartDate time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	TotalCost float64   `json:"total_cost" bson:"total_cost" validate:"min=0"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=upcoming active completed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
