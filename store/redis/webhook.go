package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/byceps/announce"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
	"github.com/byceps/announce/webhook"
)

// webhookModel is the JSON representation stored in Redis.
type webhookModel struct {
	ID           string          `json:"id"`
	EventTypes   []string        `json:"event_types"`
	EventFilters json.RawMessage `json:"event_filters,omitempty"`
	Format       string          `json:"format"`
	TextPrefix   *string         `json:"text_prefix,omitempty"`
	ExtraFields  json.RawMessage `json:"extra_fields,omitempty"`
	URL          string          `json:"url"`
	Description  *string         `json:"description,omitempty"`
	Enabled      bool            `json:"enabled"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toWebhookModel(wh *webhook.Webhook) *webhookModel {
	return &webhookModel{
		ID:           wh.ID.String(),
		EventTypes:   wh.EventTypes,
		EventFilters: wh.EventFilters,
		Format:       string(wh.Format),
		TextPrefix:   wh.TextPrefix,
		ExtraFields:  wh.ExtraFields,
		URL:          wh.URL,
		Description:  wh.Description,
		Enabled:      wh.Enabled,
		CreatedAt:    wh.CreatedAt,
		UpdatedAt:    wh.UpdatedAt,
	}
}

func fromWebhookModel(m *webhookModel) (*webhook.Webhook, error) {
	whID, err := id.ParseWebhookID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse webhook ID %q: %w", m.ID, err)
	}
	return &webhook.Webhook{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           whID,
		EventTypes:   m.EventTypes,
		EventFilters: m.EventFilters,
		Format:       webhook.Format(m.Format),
		TextPrefix:   m.TextPrefix,
		ExtraFields:  m.ExtraFields,
		URL:          m.URL,
		Description:  m.Description,
		Enabled:      m.Enabled,
	}, nil
}

// indexWebhook queues the commands that bring the event sets in line with m.
// old is the previously stored version, or nil.
func indexWebhook(ctx context.Context, pipe goredis.Pipeliner, old, m *webhookModel) {
	if old != nil && old.Enabled {
		for _, name := range old.EventTypes {
			pipe.SRem(ctx, eventSetKey(name), old.ID)
		}
	}
	if m != nil && m.Enabled {
		for _, name := range m.EventTypes {
			pipe.SAdd(ctx, eventSetKey(name), m.ID)
		}
	}
}

func (s *Store) CreateWebhook(ctx context.Context, wh *webhook.Webhook) error {
	m := toWebhookModel(wh)

	if err := s.saveJSON(ctx, entityKey(prefixWebhook, m.ID), m); err != nil {
		return fmt.Errorf("announce/redis: create webhook: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, zWebhookAll, goredis.Z{Score: 0, Member: m.ID})
	indexWebhook(ctx, pipe, nil, m)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("announce/redis: create webhook indexes: %w", err)
	}
	return nil
}

func (s *Store) getWebhookModel(ctx context.Context, whID string) (*webhookModel, error) {
	var m webhookModel
	if err := s.loadJSON(ctx, entityKey(prefixWebhook, whID), &m); err != nil {
		if missingKey(err) {
			return nil, announce.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("announce/redis: get webhook: %w", err)
	}
	return &m, nil
}

func (s *Store) GetWebhook(ctx context.Context, whID id.ID) (*webhook.Webhook, error) {
	m, err := s.getWebhookModel(ctx, whID.String())
	if err != nil {
		return nil, err
	}
	return fromWebhookModel(m)
}

func (s *Store) UpdateWebhook(ctx context.Context, wh *webhook.Webhook) error {
	old, err := s.getWebhookModel(ctx, wh.ID.String())
	if err != nil {
		return err
	}

	m := toWebhookModel(wh)
	m.UpdatedAt = utcNow()
	return s.replaceWebhook(ctx, old, m)
}

func (s *Store) replaceWebhook(ctx context.Context, old, m *webhookModel) error {
	if err := s.saveJSON(ctx, entityKey(prefixWebhook, m.ID), m); err != nil {
		return fmt.Errorf("announce/redis: update webhook: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	indexWebhook(ctx, pipe, old, m)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("announce/redis: update webhook indexes: %w", err)
	}
	return nil
}

func (s *Store) DeleteWebhook(ctx context.Context, whID id.ID) error {
	old, err := s.getWebhookModel(ctx, whID.String())
	if err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, entityKey(prefixWebhook, old.ID)); err != nil {
		return fmt.Errorf("announce/redis: delete webhook: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZRem(ctx, zWebhookAll, old.ID)
	indexWebhook(ctx, pipe, old, nil)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("announce/redis: delete webhook indexes: %w", err)
	}
	return nil
}

func (s *Store) ListWebhooks(ctx context.Context, opts webhook.ListOpts) ([]*webhook.Webhook, error) {
	ids, err := s.rdb.ZRange(ctx, zWebhookAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("announce/redis: list webhooks: %w", err)
	}

	whs, err := s.loadWebhooks(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*webhook.Webhook, 0, len(whs))
	for _, wh := range whs {
		if opts.Enabled != nil && wh.Enabled != *opts.Enabled {
			continue
		}
		if opts.Format != "" && wh.Format != opts.Format {
			continue
		}
		result = append(result, wh)
	}

	return window(result, opts.Offset, opts.Limit), nil
}

func (s *Store) ListEnabledFor(ctx context.Context, eventName string) ([]*webhook.Webhook, error) {
	ids, err := s.rdb.SMembers(ctx, eventSetKey(eventName)).Result()
	if err != nil {
		if nilReply(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("announce/redis: list enabled for %q: %w", eventName, err)
	}
	slices.Sort(ids)

	return s.loadWebhooks(ctx, ids)
}

func (s *Store) SetEnabled(ctx context.Context, whID id.ID, enabled bool) error {
	old, err := s.getWebhookModel(ctx, whID.String())
	if err != nil {
		return err
	}

	m := *old
	m.Enabled = enabled
	m.UpdatedAt = utcNow()
	return s.replaceWebhook(ctx, old, &m)
}

// loadWebhooks fetches webhooks in the order of ids, skipping IDs whose
// entity vanished between the index read and the fetch.
func (s *Store) loadWebhooks(ctx context.Context, ids []string) ([]*webhook.Webhook, error) {
	result := make([]*webhook.Webhook, 0, len(ids))
	for _, whID := range ids {
		m, err := s.getWebhookModel(ctx, whID)
		if err != nil {
			if errors.Is(err, announce.ErrWebhookNotFound) {
				continue
			}
			return nil, err
		}
		wh, err := fromWebhookModel(m)
		if err != nil {
			return nil, err
		}
		result = append(result, wh)
	}
	return result, nil
}
