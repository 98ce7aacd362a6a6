package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/byceps/announce"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
)

// failureModel is the JSON representation stored in Redis.
type failureModel struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	EventName  string    `json:"event_name"`
	WebhookID  string    `json:"webhook_id,omitempty"`
	URL        string    `json:"url,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Details    string    `json:"details"`
	FailedAt   time.Time `json:"failed_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toFailureModel(e *failure.Entry) *failureModel {
	return &failureModel{
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		EventName:  e.EventName,
		WebhookID:  e.WebhookID.String(),
		URL:        e.URL,
		StatusCode: e.StatusCode,
		Details:    e.Details,
		FailedAt:   e.FailedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func fromFailureModel(m *failureModel) (*failure.Entry, error) {
	failID, err := id.ParseFailureID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse failure ID %q: %w", m.ID, err)
	}
	var whID id.ID
	if m.WebhookID != "" {
		if whID, err = id.ParseWebhookID(m.WebhookID); err != nil {
			return nil, fmt.Errorf("parse webhook ID %q: %w", m.WebhookID, err)
		}
	}
	return &failure.Entry{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:         failID,
		Kind:       failure.Kind(m.Kind),
		EventName:  m.EventName,
		WebhookID:  whID,
		URL:        m.URL,
		StatusCode: m.StatusCode,
		Details:    m.Details,
		FailedAt:   m.FailedAt,
	}, nil
}

func (s *Store) RecordFailure(ctx context.Context, e *failure.Entry) error {
	m := toFailureModel(e)

	if err := s.saveJSON(ctx, entityKey(prefixFailure, m.ID), m); err != nil {
		return fmt.Errorf("announce/redis: record failure: %w", err)
	}
	if err := s.rdb.ZAdd(ctx, zFailureAll, goredis.Z{Score: timeScore(m.FailedAt), Member: m.ID}).Err(); err != nil {
		return fmt.Errorf("announce/redis: record failure index: %w", err)
	}
	return nil
}

// ListFailures walks the time index newest first. Entries sharing a
// timestamp come back in descending ID order.
func (s *Store) ListFailures(ctx context.Context, opts failure.ListOpts) ([]*failure.Entry, error) {
	ids, err := s.rdb.ZRevRange(ctx, zFailureAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("announce/redis: list failures: %w", err)
	}

	result := make([]*failure.Entry, 0, len(ids))
	for _, failID := range ids {
		var m failureModel
		if err := s.loadJSON(ctx, entityKey(prefixFailure, failID), &m); err != nil {
			if missingKey(err) {
				continue
			}
			return nil, err
		}
		e, err := fromFailureModel(&m)
		if err != nil {
			return nil, err
		}
		if !opts.Matches(e) {
			continue
		}
		result = append(result, e)
	}

	return window(result, opts.Offset, opts.Limit), nil
}

func (s *Store) GetFailure(ctx context.Context, failID id.ID) (*failure.Entry, error) {
	var m failureModel
	if err := s.loadJSON(ctx, entityKey(prefixFailure, failID.String()), &m); err != nil {
		if missingKey(err) {
			return nil, announce.ErrFailureNotFound
		}
		return nil, fmt.Errorf("announce/redis: get failure: %w", err)
	}
	return fromFailureModel(&m)
}

func (s *Store) DeleteFailure(ctx context.Context, failID id.ID) error {
	removed, err := s.rdb.ZRem(ctx, zFailureAll, failID.String()).Result()
	if err != nil {
		return fmt.Errorf("announce/redis: delete failure index: %w", err)
	}
	if removed == 0 {
		return announce.ErrFailureNotFound
	}
	if err := s.kv.Delete(ctx, entityKey(prefixFailure, failID.String())); err != nil {
		return fmt.Errorf("announce/redis: delete failure: %w", err)
	}
	return nil
}

func (s *Store) PurgeFailures(ctx context.Context, before time.Time) (int64, error) {
	ids, err := s.rdb.ZRangeByScore(ctx, zFailureAll, &goredis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatFloat(timeScore(before), 'f', -1, 64),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("announce/redis: purge failures: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	pipe := s.rdb.TxPipeline()
	for _, failID := range ids {
		pipe.Del(ctx, entityKey(prefixFailure, failID))
		pipe.ZRem(ctx, zFailureAll, failID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("announce/redis: purge failures exec: %w", err)
	}
	return int64(len(ids)), nil
}

func (s *Store) CountFailures(ctx context.Context) (int64, error) {
	count, err := s.rdb.ZCard(ctx, zFailureAll).Result()
	if err != nil {
		return 0, fmt.Errorf("announce/redis: count failures: %w", err)
	}
	return count, nil
}
