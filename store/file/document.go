package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
	"github.com/byceps/announce/webhook"
)

// document is the layout of the webhook file:
//
//	webhooks:
//	  - id: whk_01h455vb4pex5vsknk084sn02q
//	    description: LAN channel
//	    url: https://irc-bot.example/
//	    format: weitersager
//	    text_prefix: "[Forum] "
//	    event_types: [board-topic-created, board-posting-created]
//	    event_filters:
//	      board-topic-created:
//	        board_id: [lan-2024]
//	    extra_fields:
//	      channel: "#lan"
//	    enabled: true
//
// Entries without an id get one assigned, which is written back.
type document struct {
	Webhooks []entry `yaml:"webhooks"`
}

type entry struct {
	ID           string    `yaml:"id,omitempty"`
	Description  *string   `yaml:"description,omitempty"`
	URL          string    `yaml:"url"`
	Format       string    `yaml:"format"`
	TextPrefix   *string   `yaml:"text_prefix,omitempty"`
	EventTypes   []string  `yaml:"event_types,flow"`
	EventFilters any       `yaml:"event_filters,omitempty"`
	ExtraFields  any       `yaml:"extra_fields,omitempty"`
	Enabled      bool      `yaml:"enabled"`
	CreatedAt    time.Time `yaml:"created_at,omitempty"`
	UpdatedAt    time.Time `yaml:"updated_at,omitempty"`
}

func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode webhook file: %w", err)
	}
	return &doc, nil
}

// webhooks converts the entries. assigned reports whether any entry was
// missing its id.
func (d *document) webhooks() ([]*webhook.Webhook, bool, error) {
	var (
		result   = make([]*webhook.Webhook, 0, len(d.Webhooks))
		seen     = make(map[string]bool, len(d.Webhooks))
		assigned bool
	)

	for i, e := range d.Webhooks {
		wh, err := e.toWebhook()
		if err != nil {
			return nil, false, fmt.Errorf("webhook #%d: %w", i+1, err)
		}
		if e.ID == "" {
			assigned = true
		}
		if seen[wh.ID.String()] {
			return nil, false, fmt.Errorf("webhook #%d: duplicate id %s", i+1, wh.ID)
		}
		seen[wh.ID.String()] = true
		result = append(result, wh)
	}
	return result, assigned, nil
}

// toWebhook maps the YAML structures of event_filters and extra_fields to
// JSON. Their shape is not checked here: a malformed block loads fine and
// is reported when an event reaches the webhook.
func (e *entry) toWebhook() (*webhook.Webhook, error) {
	whID := id.NewWebhookID()
	if e.ID != "" {
		var err error
		if whID, err = id.ParseWebhookID(e.ID); err != nil {
			return nil, err
		}
	}

	filters, err := toJSON(e.EventFilters)
	if err != nil {
		return nil, fmt.Errorf("event_filters: %w", err)
	}
	extra, err := toJSON(e.ExtraFields)
	if err != nil {
		return nil, fmt.Errorf("extra_fields: %w", err)
	}

	ent := entity.Entity{CreatedAt: e.CreatedAt.UTC(), UpdatedAt: e.UpdatedAt.UTC()}
	if e.CreatedAt.IsZero() {
		ent = entity.New()
	}

	return &webhook.Webhook{
		Entity:       ent,
		ID:           whID,
		EventTypes:   e.EventTypes,
		EventFilters: filters,
		Format:       webhook.Format(e.Format),
		TextPrefix:   e.TextPrefix,
		ExtraFields:  extra,
		URL:          e.URL,
		Description:  e.Description,
		Enabled:      e.Enabled,
	}, nil
}

func fromWebhook(wh *webhook.Webhook) (entry, error) {
	filters, err := fromJSON(wh.EventFilters)
	if err != nil {
		return entry{}, fmt.Errorf("webhook %s: event_filters: %w", wh.ID, err)
	}
	extra, err := fromJSON(wh.ExtraFields)
	if err != nil {
		return entry{}, fmt.Errorf("webhook %s: extra_fields: %w", wh.ID, err)
	}

	return entry{
		ID:           wh.ID.String(),
		Description:  wh.Description,
		URL:          wh.URL,
		Format:       string(wh.Format),
		TextPrefix:   wh.TextPrefix,
		EventTypes:   wh.EventTypes,
		EventFilters: filters,
		ExtraFields:  extra,
		Enabled:      wh.Enabled,
		CreatedAt:    wh.CreatedAt,
		UpdatedAt:    wh.UpdatedAt,
	}, nil
}

func encodeDocument(whs []*webhook.Webhook) ([]byte, error) {
	doc := document{Webhooks: make([]entry, 0, len(whs))}
	for _, wh := range whs {
		e, err := fromWebhook(wh)
		if err != nil {
			return nil, err
		}
		doc.Webhooks = append(doc.Webhooks, e)
	}
	return yaml.Marshal(&doc)
}

// toJSON encodes a decoded YAML value. YAML mappings with non-string keys
// have no JSON form.
func toJSON(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		var unsupported *json.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return nil, errors.New("mapping keys must be strings")
		}
		return nil, err
	}
	return raw, nil
}

func fromJSON(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
