package service

import (
	"testing"
	"time"

	"storago/pkg/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveStatus(t *testing.T) {
	start := date(2026, 3, 10)
	end := date(2026, 3, 15)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"well before start", date(2026, 3, 1), model.StatusUpcoming},
		{"moment before start day", time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC), model.StatusUpcoming},
		{"start day midnight", start, model.StatusActive},
		{"middle of range", date(2026, 3, 12), model.StatusActive},
		{"end day morning", time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), model.StatusActive},
		{"end day last second", time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC), model.StatusActive},
		{"day after end", date(2026, 3, 16), model.StatusCompleted},
		{"long after end", date(2026, 6, 1), model.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStatus(start, end, tt.now)
			if got != tt.want {
				t.Errorf("ResolveStatus(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestResolveStatusSingleTransitionPoint(t *testing.T) {
	// Sweeping time across a range must produce exactly
	// upcoming -> active -> completed with no regressions.
	start := date(2026, 5, 1)
	end := date(2026, 5, 3)

	order := map[string]int{
		model.StatusUpcoming:  0,
		model.StatusActive:    1,
		model.StatusCompleted: 2,
	}

	prev := -1
	for now := date(2026, 4, 28); now.Before(date(2026, 5, 7)); now = now.Add(6 * time.Hour) {
		rank, ok := order[ResolveStatus(start, end, now)]
		if !ok {
			t.Fatalf("unexpected status at %v", now)
		}
		if rank < prev {
			t.Fatalf("status regressed at %v", now)
		}
		prev = rank
	}
	if prev != order[model.StatusCompleted] {
		t.Fatalf("sweep never reached completed")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		s1, e1, s2, e2         time.Time
		want                   bool
	}{
		{"disjoint before", date(2026, 1, 1), date(2026, 1, 5), date(2026, 1, 6), date(2026, 1, 10), false},
		{"disjoint after", date(2026, 1, 6), date(2026, 1, 10), date(2026, 1, 1), date(2026, 1, 5), false},
		{"shared boundary day", date(2026, 1, 1), date(2026, 1, 5), date(2026, 1, 5), date(2026, 1, 10), true},
		{"partial overlap", date(2026, 1, 1), date(2026, 1, 7), date(2026, 1, 5), date(2026, 1, 10), true},
		{"containment", date(2026, 1, 1), date(2026, 1, 31), date(2026, 1, 10), date(2026, 1, 12), true},
		{"identical ranges", date(2026, 1, 3), date(2026, 1, 8), date(2026, 1, 3), date(2026, 1, 8), true},
		{"single day inside", date(2026, 1, 5), date(2026, 1, 5), date(2026, 1, 1), date(2026, 1, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsMatchesCaseAnalysis(t *testing.T) {
	// The compact predicate must agree with the explicit four cases:
	// left overlap, right overlap, containment either way.
	base := date(2026, 2, 1)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	for s1 := 0; s1 < 8; s1++ {
		for e1 := s1; e1 < 8; e1++ {
			for s2 := 0; s2 < 8; s2++ {
				for e2 := s2; e2 < 8; e2++ {
					want := (s2 <= s1 && s1 <= e2) ||
						(s2 <= e1 && e1 <= e2) ||
						(s1 <= s2 && e2 <= e1) ||
						(s2 <= s1 && e1 <= e2)
					got := Overlaps(day(s1), day(e1), day(s2), day(e2))
					if got != want {
						t.Fatalf("Overlaps([%d,%d],[%d,%d]) = %v, want %v", s1, e1, s2, e2, got, want)
					}
				}
			}
		}
	}
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"two weeks inclusive", date(2024, 3, 1), date(2024, 3, 15), 15},
		{"adjacent days", date(2026, 7, 1), date(2026, 7, 2), 2},
		{"same day", date(2026, 7, 1), date(2026, 7, 1), 1},
		{"across month end", date(2026, 1, 30), date(2026, 2, 2), 4},
		{"across year end", date(2025, 12, 31), date(2026, 1, 1), 2},
		{"full year", date(2026, 1, 1), date(2026, 12, 31), 365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationDays(tt.start, tt.end); got != tt.want {
				t.Errorf("DurationDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeCost(t *testing.T) {
	tests := []struct {
		name        string
		days        int
		pricePerDay float64
		want        float64
	}{
		{"whole dollars", 15, 25.00, 375.00},
		{"cents preserved", 3, 19.99, 59.97},
		{"midpoint rounds up", 2, 8.4375, 16.88},
		{"free unit", 10, 0, 0},
		{"single day", 1, 42.50, 42.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeCost(tt.days, tt.pricePerDay); got != tt.want {
				t.Errorf("ComputeCost(%d, %v) = %v, want %v", tt.days, tt.pricePerDay, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2026, 8, 31, 17, 45, 12, 999, time.FixedZone("CEST", 2*3600))
	got := NormalizeDate(in)
	want := date(2026, 8, 31)
	if !got.Equal(want) {
		t.Errorf("NormalizeDate = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("NormalizeDate location = %v, want UTC", got.Location())
	}
}
