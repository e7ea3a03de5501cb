package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lockName = "scheduler_locks"

// SchedulerLockDatabase provides a simple distributed lock so periodic
// jobs run on exactly one instance at a time.
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, holder string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock takes the named lock via upsert. The filter matches
// only when the lock is expired or already held by this holder, so a
// live lock held elsewhere surfaces as a duplicate key error.
func (s *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id": name,
		"$or": []bson.M{
			{"expiresAt": bson.M{"$lt": now}},
			{"holder": holder},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"holder":    holder,
			"expiresAt": now.Add(ttl),
		},
	}
	_, err := s.db.Collection(lockName).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLock drops the lock if this holder still owns it.
func (s *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, holder string) error {
	return s.db.Collection(lockName).DeleteOne(ctx, bson.M{"_id": name, "holder": holder})
}
