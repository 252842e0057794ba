package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	unitserrors "storago/internal/units/errors"
	"storago/pkg/config"
	mongotx "storago/pkg/db/mongo"
	"storago/pkg/model"
)

const (
	CollectionName = "Storage_units"
)

type mongoStorageUnitRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type StorageUnitRepository interface {
	Create(ctx context.Context, unit *model.StorageUnit) error
	FindByID(ctx context.Context, id string) (*model.StorageUnit, error)
	FindAll(ctx context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, error)
	Update(ctx context.Context, id string, unit *model.StorageUnit) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter *model.UnitFilter) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoStorageUnitRepository(cfg *config.Config) StorageUnitRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStorageUnitRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics.
func (r *mongoStorageUnitRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoStorageUnitRepository) Create(ctx context.Context, unit *model.StorageUnit) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	unit.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, unit)
	if err != nil {
		return fmt.Errorf("failed to create storage unit: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		unit.ID = oid.Hex()
	}
	return nil
}

func (r *mongoStorageUnitRepository) FindByID(ctx context.Context, id string) (*model.StorageUnit, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", unitserrors.ErrInvalidID, id)
	}

	var unit model.StorageUnit
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&unit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, unitserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find storage unit: %w", err)
	}

	return &unit, nil
}

func (r *mongoStorageUnitRepository) FindAll(ctx context.Context, filter *model.UnitFilter, limit int, offset int64) ([]*model.StorageUnit, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Available units first, then cheapest, then oldest
	opts := options.Find().
		SetSort(bson.D{
			{Key: "is_available", Value: -1},
			{Key: "price_per_day", Value: 1},
			{Key: "created_at", Value: 1},
		}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildUnitFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find storage units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []*model.StorageUnit
	if err = cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode storage units: %w", err)
	}

	return units, nil
}

func (r *mongoStorageUnitRepository) Update(ctx context.Context, id string, unit *model.StorageUnit) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", unitserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":          unit.Name,
			"size":          unit.Size,
			"location":      unit.Location,
			"price_per_day": unit.PricePerDay,
			"is_available":  unit.IsAvailable,
			"description":   unit.Description,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update storage unit: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, unitserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoStorageUnitRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", unitserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete storage unit: %w", err)
	}

	if result.DeletedCount == 0 {
		return unitserrors.ErrNotFound
	}

	return nil
}

func (r *mongoStorageUnitRepository) Count(ctx context.Context, filter *model.UnitFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildUnitFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count storage units: %w", err)
	}

	return count, nil
}

func buildUnitFilter(filter *model.UnitFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return query
	}

	if filter.Location != "" {
		query["location"] = filter.Location
	}
	if filter.Size != "" {
		query["size"] = filter.Size
	}
	if filter.Available != nil {
		query["is_available"] = *filter.Available
	}

	if filter.MinPrice != nil || filter.MaxPrice != nil {
		priceFilter := bson.M{}
		if filter.MinPrice != nil {
			priceFilter["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			priceFilter["$lte"] = *filter.MaxPrice
		}
		query["price_per_day"] = priceFilter
	}

	return query
}

func (r *mongoStorageUnitRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
