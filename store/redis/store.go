// Package redis keeps webhooks, jobs and failure entries in Redis, using
// grove's KV layer for the JSON documents and the raw go-redis client for
// the indexes. Every entity has one document key; sorted sets order jobs by
// run time and failures by time, and one set per event name holds the IDs
// of the enabled webhooks subscribed to it.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/grove/kv"
	"github.com/xraph/grove/kv/drivers/redisdriver"

	announcestore "github.com/byceps/announce/store"
)

var _ announcestore.Store = (*Store)(nil)

// Store is the Redis backend.
type Store struct {
	kv  *kv.Store
	rdb goredis.UniversalClient
}

// New wraps a grove KV store opened with the redis driver.
func New(kvs *kv.Store) *Store {
	return &Store{kv: kvs, rdb: redisdriver.UnwrapClient(kvs)}
}

// Migrate does nothing; keys and sets come into being on first write.
func (s *Store) Migrate(context.Context) error { return nil }

func (s *Store) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

func (s *Store) Close() error { return s.kv.Close() }

// loadJSON decodes the document at key into dst.
func (s *Store) loadJSON(ctx context.Context, key string, dst any) error {
	data, err := s.kv.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func (s *Store) saveJSON(ctx context.Context, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("announce/redis: encode %s: %w", key, err)
	}
	return s.kv.SetRaw(ctx, key, data)
}

func utcNow() time.Time { return time.Now().UTC() }

// timeScore orders sorted set members by t with sub-second precision.
func timeScore(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func missingKey(err error) bool { return errors.Is(err, kv.ErrNotFound) }

func nilReply(err error) bool { return errors.Is(err, goredis.Nil) }

// window cuts items down to the page selected by offset and limit. Zero
// values select everything.
func window[T any](items []*T, offset, limit int) []*T {
	switch {
	case offset >= len(items) && offset > 0:
		return nil
	case offset > 0:
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
