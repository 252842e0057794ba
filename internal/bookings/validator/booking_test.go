package validator

import (
	"io"
	"strings"
	"testing"
	"time"

	"storago/pkg/logger"
	"storago/pkg/model"
)

func testValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Output: io.Discard}), 365)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateDateRange(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    string
	}{
		{"valid future range", date(2026, 9, 10), date(2026, 9, 12), ""},
		{"starts today", date(2026, 9, 1), date(2026, 9, 2), ""},
		{"exactly max span", date(2026, 9, 10), date(2027, 9, 10), ""},
		{"end before start", date(2026, 9, 12), date(2026, 9, 10), "end_date must be after start_date"},
		{"end equals start", date(2026, 9, 10), date(2026, 9, 10), "end_date must be after start_date"},
		{"start in the past", date(2026, 8, 31), date(2026, 9, 10), "start_date cannot be in the past"},
		{"span too long", date(2026, 9, 10), date(2027, 9, 11), "cannot span more than 365 days"},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDateRange(tt.start, tt.end, now)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	valid := func() *model.Booking {
		return &model.Booking{
			UnitID:    "665f1f77bcf86cd799439011",
			UserName:  "Alice",
			StartDate: date(2026, 9, 10),
			EndDate:   date(2026, 9, 12),
		}
	}

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr string
	}{
		{"valid request", func(b *model.Booking) {}, ""},
		{"missing unit id", func(b *model.Booking) { b.UnitID = "" }, "UnitID"},
		{"malformed unit id", func(b *model.Booking) { b.UnitID = "not-an-object-id" }, "UnitID"},
		{"missing user name", func(b *model.Booking) { b.UserName = "" }, "UserName"},
		{"user name too long", func(b *model.Booking) { b.UserName = strings.Repeat("a", 256) }, "UserName"},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := valid()
			tt.mutate(booking)

			err := v.ValidateRequest(booking, now)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRequestIgnoresDerivedFields(t *testing.T) {
	// Status and cost are computed at admission, so an empty status and a
	// zero cost must not fail request validation.
	v := testValidator()
	booking := &model.Booking{
		UnitID:    "665f1f77bcf86cd799439011",
		UserName:  "Alice",
		StartDate: date(2026, 9, 10),
		EndDate:   date(2026, 9, 12),
	}

	if err := v.ValidateRequest(booking, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateStatusFilter(t *testing.T) {
	v := testValidator()

	for _, status := range []string{"", "upcoming", "active", "completed", "cancelled"} {
		if err := v.ValidateStatusFilter(status); err != nil {
			t.Errorf("ValidateStatusFilter(%q) = %v, want nil", status, err)
		}
	}

	for _, status := range []string{"pending", "UPCOMING", "done"} {
		if err := v.ValidateStatusFilter(status); err == nil {
			t.Errorf("ValidateStatusFilter(%q) = nil, want error", status)
		}
	}
}
