package service

import (
	"math"
	"time"

	"storago/pkg/model"
)

// ResolveStatus derives a booking's lifecycle stage from time alone:
// upcoming before the start date, completed after the end date, active in
// between. Cancellation is a terminal override applied elsewhere and is
// never produced here.
func ResolveStatus(startDate, endDate, now time.Time) string {
	if now.Before(startDate) {
		return model.StatusUpcoming
	}
	if now.After(endOfDay(endDate)) {
		return model.StatusCompleted
	}
	return model.StatusActive
}

// Overlaps reports whether two inclusive date ranges share at least one
// calendar day: s1 <= e2 && s2 <= e1.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !start2.After(end1)
}

// DurationDays counts the booked days inclusive of both boundary dates,
// so 2024-03-01..2024-03-15 is 15 days.
func DurationDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

// ComputeCost is durationDays x the unit's daily rate, rounded half-up to
// two decimals.
func ComputeCost(durationDays int, pricePerDay float64) float64 {
	return math.Round(float64(durationDays)*pricePerDay*100) / 100
}

// NormalizeDate truncates an instant to its UTC calendar day.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// endOfDay returns the last instant of the date's UTC calendar day, so a
// booking stays active for the whole of its end date.
func endOfDay(date time.Time) time.Time {
	return NormalizeDate(date).Add(24*time.Hour - time.Nanosecond)
}
