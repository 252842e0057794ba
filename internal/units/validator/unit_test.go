package validator

import (
	"strings"
	"testing"

	"storago/pkg/logger"
	"storago/pkg/model"
)

func newTestValidator() *StorageUnitValidator {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewStorageUnitValidator(log)
}

func validUnit() *model.StorageUnit {
	return &model.StorageUnit{
		Name:        "Downtown Locker 12",
		Size:        "5x10",
		Location:    "Haifa",
		PricePerDay: 25.00,
		IsAvailable: true,
	}
}

func TestValidate_ValidUnit(t *testing.T) {
	v := newTestValidator()
	if err := v.Validate(validUnit()); err != nil {
		t.Fatalf("expected valid unit, got error: %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *model.StorageUnit)
		field  string
	}{
		{"missing name", func(u *model.StorageUnit) { u.Name = "" }, "Name"},
		{"missing size", func(u *model.StorageUnit) { u.Size = "" }, "Size"},
		{"missing location", func(u *model.StorageUnit) { u.Location = "" }, "Location"},
		{"name too short", func(u *model.StorageUnit) { u.Name = "x" }, "Name"},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := validUnit()
			tt.mutate(unit)
			err := v.Validate(unit)
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.field)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error mentioning %s, got: %v", tt.field, err)
			}
		})
	}
}

func TestValidate_NegativePrice(t *testing.T) {
	v := newTestValidator()
	unit := validUnit()
	unit.PricePerDay = -1.50

	if err := v.Validate(unit); err == nil {
		t.Fatal("expected validation error for negative price")
	}
}

func TestValidate_InvalidID(t *testing.T) {
	v := newTestValidator()
	unit := validUnit()
	unit.ID = "not-an-object-id"

	err := v.Validate(unit)
	if err == nil {
		t.Fatal("expected validation error for malformed ID")
	}
	if !strings.Contains(err.Error(), "ID") {
		t.Errorf("expected error mentioning ID, got: %v", err)
	}
}

func TestValidateFilter(t *testing.T) {
	v := newTestValidator()

	neg := -5.0
	lo, hi := 10.0, 20.0

	tests := []struct {
		name    string
		filter  *model.UnitFilter
		wantErr bool
	}{
		{"nil filter", nil, false},
		{"empty filter", &model.UnitFilter{}, false},
		{"valid range", &model.UnitFilter{MinPrice: &lo, MaxPrice: &hi}, false},
		{"negative min", &model.UnitFilter{MinPrice: &neg}, true},
		{"negative max", &model.UnitFilter{MaxPrice: &neg}, true},
		{"min above max", &model.UnitFilter{MinPrice: &hi, MaxPrice: &lo}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFilter(tt.filter)
			if tt.wantErr && err == nil {
				t.Error("expected filter validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
