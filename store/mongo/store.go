// Package mongo keeps webhooks, jobs and failure entries in three MongoDB
// collections, reached through grove's mongo driver.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/byceps/announce"
	"github.com/byceps/announce/store"
)

const (
	colWebhooks = "announce_webhooks"
	colJobs     = "announce_jobs"
	colFailures = "announce_failures"
)

var _ store.Store = (*Store)(nil)

// Store is the MongoDB backend.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New wraps a grove database opened with the mongo driver.
func New(db *grove.DB) *Store {
	return &Store{db: db, mdb: mongodriver.Unwrap(db)}
}

// DB exposes the grove handle, e.g. for sharing the connection.
func (s *Store) DB() *grove.DB { return s.db }

// collectionIndexes pairs a collection with the indexes Migrate ensures.
type collectionIndexes struct {
	collection string
	indexes    []mongod.IndexModel
}

func indexPlan() []collectionIndexes {
	asc := func(keys ...string) bson.D {
		d := make(bson.D, 0, len(keys))
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return d
	}

	return []collectionIndexes{
		// event_types is an array, so this one is multikey.
		{colWebhooks, []mongod.IndexModel{{Keys: asc("event_types", "enabled")}}},
		{colJobs, []mongod.IndexModel{
			{Keys: asc("state", "run_at")},
			{Keys: asc("webhook_id")},
		}},
		{colFailures, []mongod.IndexModel{
			{Keys: bson.D{{Key: "failed_at", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: asc("webhook_id")},
			{Keys: asc("event_name"), Options: options.Index().SetSparse(true)},
		}},
	}
}

// Migrate ensures the indexes; collections are created implicitly.
func (s *Store) Migrate(ctx context.Context) error {
	for _, plan := range indexPlan() {
		if _, err := s.mdb.Collection(plan.collection).Indexes().CreateMany(ctx, plan.indexes); err != nil {
			return fmt.Errorf("announce/mongo: %w: indexes on %s: %w",
				announce.ErrMigrationFailed, plan.collection, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Store) Close() error { return s.db.Close() }

func now() time.Time { return time.Now().UTC() }

func isNoDocuments(err error) bool { return errors.Is(err, mongod.ErrNoDocuments) }
