package service

import (
	"context"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	unitserrors "storago/internal/units/errors"
	"storago/internal/units/validator"
	"storago/pkg/config"
	mongotx "storago/pkg/db/mongo"
	apperrors "storago/pkg/errors"
	"storago/pkg/logger"
	"storago/pkg/model"
)

const testUnitID = "665f1f77bcf86cd799439011"

type mockUnitRepo struct {
	CreateFn             func(ctx context.Context, unit *model.StorageUnit) error
	FindByIDFn           func(ctx context.Context, id string) (*model.StorageUnit, error)
	FindAllFn            func(ctx context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, error)
	UpdateFn             func(ctx context.Context, id string, unit *model.StorageUnit) (*mongo.UpdateResult, error)
	DeleteFn             func(ctx context.Context, id string) error
	CountFn              func(ctx context.Context, filter *model.UnitFilter) (int64, error)
	ExecuteTransactionFn func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockUnitRepo) Create(ctx context.Context, unit *model.StorageUnit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, unit)
	}
	unit.ID = testUnitID
	return nil
}

func (m *mockUnitRepo) FindByID(ctx context.Context, id string) (*model.StorageUnit, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, unitserrors.ErrNotFound
}

func (m *mockUnitRepo) FindAll(ctx context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *mockUnitRepo) Update(ctx context.Context, id string, unit *model.StorageUnit) (*mongo.UpdateResult, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, unit)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockUnitRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockUnitRepo) Count(ctx context.Context, filter *model.UnitFilter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockUnitRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.ExecuteTransactionFn != nil {
		return m.ExecuteTransactionFn(ctx, fn)
	}
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockRefCounter struct {
	CountByUnitFn func(ctx context.Context, unitID string) (int64, error)
}

func (m *mockRefCounter) CountByUnit(ctx context.Context, unitID string) (int64, error) {
	if m.CountByUnitFn != nil {
		return m.CountByUnitFn(ctx, unitID)
	}
	return 0, nil
}

func newTestService(repo *mockUnitRepo, refs *mockRefCounter) StorageUnitService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Output: io.Discard}),
	}
	return NewStorageUnitService(repo, refs, validator.NewStorageUnitValidator(cfg.Log), cfg)
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	return apperrors.AsAppError(err).Code
}

func TestCreateUnit(t *testing.T) {
	repo := &mockUnitRepo{}
	svc := newTestService(repo, &mockRefCounter{})

	unit := &model.StorageUnit{
		Name:        "  Unit   A-12 ",
		Size:        "  MEDIUM ",
		Location:    " Berlin ",
		PricePerDay: 25.00,
		IsAvailable: true,
	}

	if err := svc.Create(context.Background(), unit); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if unit.ID != testUnitID {
		t.Errorf("unit ID = %q, want %q", unit.ID, testUnitID)
	}
	if unit.Name != "Unit A-12" {
		t.Errorf("name not normalized: %q", unit.Name)
	}
	if unit.Size != "medium" {
		t.Errorf("size not normalized: %q", unit.Size)
	}
	if unit.Location != "Berlin" {
		t.Errorf("location not normalized: %q", unit.Location)
	}
}

func TestCreateUnitValidation(t *testing.T) {
	created := false
	repo := &mockUnitRepo{CreateFn: func(_ context.Context, _ *model.StorageUnit) error {
		created = true
		return nil
	}}
	svc := newTestService(repo, &mockRefCounter{})

	tests := []struct {
		name string
		unit *model.StorageUnit
	}{
		{"missing name", &model.StorageUnit{Size: "small", Location: "Berlin", PricePerDay: 10}},
		{"negative price", &model.StorageUnit{Name: "U1", Size: "small", Location: "Berlin", PricePerDay: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(context.Background(), tt.unit)
			if code := errCode(t, err); code != apperrors.CodeValidation {
				t.Errorf("error code = %q, want %q", code, apperrors.CodeValidation)
			}
			if created {
				t.Error("unit persisted despite validation failure")
			}
		})
	}
}

func TestGetUnitByID(t *testing.T) {
	repo := &mockUnitRepo{FindByIDFn: func(_ context.Context, id string) (*model.StorageUnit, error) {
		return &model.StorageUnit{ID: id, Name: "Unit A-12"}, nil
	}}
	svc := newTestService(repo, &mockRefCounter{})

	unit, err := svc.GetByID(context.Background(), testUnitID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if unit.ID != testUnitID {
		t.Errorf("unit ID = %q, want %q", unit.ID, testUnitID)
	}
}

func TestGetUnitByIDErrors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{"empty id", "", nil, apperrors.CodeInvalidInput},
		{"not found", testUnitID, unitserrors.ErrNotFound, apperrors.CodeNotFound},
		{"malformed id", "nope", unitserrors.ErrInvalidID, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUnitRepo{FindByIDFn: func(_ context.Context, _ string) (*model.StorageUnit, error) {
				return nil, tt.repoErr
			}}
			svc := newTestService(repo, &mockRefCounter{})

			_, err := svc.GetByID(context.Background(), tt.id)
			if code := errCode(t, err); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestGetAllUnits(t *testing.T) {
	var gotLimit int
	var gotFilter *model.UnitFilter
	repo := &mockUnitRepo{
		FindAllFn: func(_ context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, error) {
			gotLimit = limit
			gotFilter = filter
			return []*model.StorageUnit{{ID: testUnitID, Name: "Unit A-12"}}, nil
		},
		CountFn: func(_ context.Context, _ *model.UnitFilter) (int64, error) {
			return 42, nil
		},
	}
	svc := newTestService(repo, &mockRefCounter{})

	units, total, err := svc.GetAll(context.Background(), &model.UnitFilter{Size: " LARGE "}, 0, -5)
	if err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}
	if len(units) != 1 {
		t.Errorf("units = %d, want 1", len(units))
	}
	if gotLimit != 10 {
		t.Errorf("limit passed to repo = %d, want normalized 10", gotLimit)
	}
	if gotFilter.Size != "large" {
		t.Errorf("filter size not normalized: %q", gotFilter.Size)
	}
}

func TestGetAllUnitsInvalidPriceRange(t *testing.T) {
	svc := newTestService(&mockUnitRepo{}, &mockRefCounter{})

	minPrice, maxPrice := 50.0, 10.0
	_, _, err := svc.GetAll(context.Background(), &model.UnitFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, 10, 0)
	if code := errCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeValidation)
	}
}

func TestUpdateUnitMergesFields(t *testing.T) {
	var updated *model.StorageUnit
	repo := &mockUnitRepo{
		FindByIDFn: func(_ context.Context, id string) (*model.StorageUnit, error) {
			return &model.StorageUnit{
				ID: id, Name: "Unit A-12", Size: "medium", Location: "Berlin",
				PricePerDay: 25.00, IsAvailable: true,
			}, nil
		},
		UpdateFn: func(_ context.Context, _ string, unit *model.StorageUnit) (*mongo.UpdateResult, error) {
			updated = unit
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(repo, &mockRefCounter{})

	newPrice := 30.00
	disabled := false
	err := svc.Update(context.Background(), testUnitID, &model.StorageUnitUpdate{
		PricePerDay: &newPrice,
		IsAvailable: &disabled,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.Name != "Unit A-12" {
		t.Errorf("untouched name changed: %q", updated.Name)
	}
	if updated.PricePerDay != 30.00 {
		t.Errorf("price = %v, want 30.00", updated.PricePerDay)
	}
	if updated.IsAvailable {
		t.Error("availability flag not applied")
	}
}

func TestDeleteUnitBlockedByBookings(t *testing.T) {
	deleted := false
	repo := &mockUnitRepo{DeleteFn: func(_ context.Context, _ string) error {
		deleted = true
		return nil
	}}
	refs := &mockRefCounter{CountByUnitFn: func(_ context.Context, _ string) (int64, error) {
		return 3, nil
	}}
	svc := newTestService(repo, refs)

	err := svc.Delete(context.Background(), testUnitID)
	if code := errCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("error code = %q, want %q", code, apperrors.CodeConflict)
	}
	if deleted {
		t.Error("unit deleted despite existing bookings")
	}
}

func TestDeleteUnit(t *testing.T) {
	repo := &mockUnitRepo{}
	svc := newTestService(repo, &mockRefCounter{})

	if err := svc.Delete(context.Background(), testUnitID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}
