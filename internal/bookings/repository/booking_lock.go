package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storago/pkg/config"
	"storago/pkg/model"
)

const (
	LockCollectionName = "Booking_locks"
)

// ErrLockNotAcquired means another admission currently holds the unit's lock.
var ErrLockNotAcquired = fmt.Errorf("booking lock not acquired")

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// BookingLockRepository implements a per-unit advisory lock. Acquisition is
// an insert against a unique _id; a duplicate key error means the lock is
// held. A TTL index on expires_at reaps locks leaked by a crashed process.
type BookingLockRepository interface {
	Acquire(ctx context.Context, unitID string) error
	Release(ctx context.Context, unitID string) error
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func lockID(unitID string) string {
	return "unit_" + unitID
}

func (r *mongoBookingLockRepository) Acquire(ctx context.Context, unitID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.BookingLock{
		ID:        lockID(unitID),
		ExpiresAt: now.Add(r.cfg.BookingLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLockNotAcquired
		}
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, unitID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID(unitID)})
	if err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}

	return nil
}
