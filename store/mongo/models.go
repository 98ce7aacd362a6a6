package mongo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
	"github.com/byceps/announce/webhook"
)

// JSON blobs are kept as strings so they stay readable in the shell.

// --- Webhook models ---

type webhookModel struct {
	grove.BaseModel `grove:"table:announce_webhooks"`

	ID           string    `grove:"id,pk"         bson:"_id"`
	EventTypes   []string  `grove:"event_types"   bson:"event_types"`
	EventFilters string    `grove:"event_filters" bson:"event_filters,omitempty"`
	Format       string    `grove:"format"        bson:"format"`
	TextPrefix   *string   `grove:"text_prefix"   bson:"text_prefix,omitempty"`
	ExtraFields  string    `grove:"extra_fields"  bson:"extra_fields,omitempty"`
	URL          string    `grove:"url"           bson:"url"`
	Description  *string   `grove:"description"   bson:"description,omitempty"`
	Enabled      bool      `grove:"enabled"       bson:"enabled"`
	CreatedAt    time.Time `grove:"created_at"    bson:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"    bson:"updated_at"`
}

func toWebhookModel(wh *webhook.Webhook) *webhookModel {
	eventTypes := wh.EventTypes
	if eventTypes == nil {
		eventTypes = []string{}
	}

	return &webhookModel{
		ID:           wh.ID.String(),
		EventTypes:   eventTypes,
		EventFilters: string(wh.EventFilters),
		Format:       string(wh.Format),
		TextPrefix:   wh.TextPrefix,
		ExtraFields:  string(wh.ExtraFields),
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
		EventFilters: rawOrNil(m.EventFilters),
		Format:       webhook.Format(m.Format),
		TextPrefix:   m.TextPrefix,
		ExtraFields:  rawOrNil(m.ExtraFields),
		URL:          m.URL,
		Description:  m.Description,
		Enabled:      m.Enabled,
	}, nil
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}

	return json.RawMessage(s)
}

// --- Job models ---

type jobModel struct {
	grove.BaseModel `grove:"table:announce_jobs"`

	ID             string     `grove:"id,pk"            bson:"_id"`
	WebhookID      string     `grove:"webhook_id"       bson:"webhook_id"`
	EventName      string     `grove:"event_name"       bson:"event_name"`
	Request        string     `grove:"request"          bson:"request"`
	RunAt          time.Time  `grove:"run_at"           bson:"run_at"`
	State          string     `grove:"state"            bson:"state"`
	LastStatusCode int        `grove:"last_status_code" bson:"last_status_code"`
	LastError      string     `grove:"last_error"       bson:"last_error"`
	LastLatencyMs  int        `grove:"last_latency_ms"  bson:"last_latency_ms"`
	CompletedAt    *time.Time `grove:"completed_at"     bson:"completed_at,omitempty"`
	CreatedAt      time.Time  `grove:"created_at"       bson:"created_at"`
	UpdatedAt      time.Time  `grove:"updated_at"       bson:"updated_at"`
}

func toJobModel(j *delivery.Job) (*jobModel, error) {
	req, err := json.Marshal(j.Request)
	if err != nil {
		return nil, fmt.Errorf("encode job request: %w", err)
	}

	return &jobModel{
		ID:             j.ID.String(),
		WebhookID:      j.Request.WebhookID.String(),
		EventName:      j.Request.EventName,
		Request:        string(req),
		RunAt:          j.RunAt,
		State:          string(j.State),
		LastStatusCode: j.LastStatusCode,
		LastError:      j.LastError,
		LastLatencyMs:  j.LastLatencyMs,
		CompletedAt:    j.CompletedAt,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}, nil
}

func fromJobModel(m *jobModel) (*delivery.Job, error) {
	jobID, err := id.ParseJobID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse job ID %q: %w", m.ID, err)
	}

	var req announcement.Request
	if err := json.Unmarshal([]byte(m.Request), &req); err != nil {
		return nil, fmt.Errorf("decode request of job %q: %w", m.ID, err)
	}

	return &delivery.Job{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             jobID,
		Request:        req,
		RunAt:          m.RunAt,
		State:          delivery.State(m.State),
		LastStatusCode: m.LastStatusCode,
		LastError:      m.LastError,
		LastLatencyMs:  m.LastLatencyMs,
		CompletedAt:    m.CompletedAt,
	}, nil
}

// --- Failure models ---

type failureModel struct {
	grove.BaseModel `grove:"table:announce_failures"`

	ID         string    `grove:"id,pk"       bson:"_id"`
	Kind       string    `grove:"kind"        bson:"kind"`
	EventName  string    `grove:"event_name"  bson:"event_name"`
	WebhookID  string    `grove:"webhook_id"  bson:"webhook_id"`
	URL        string    `grove:"url"         bson:"url"`
	StatusCode int       `grove:"status_code" bson:"status_code"`
	Details    string    `grove:"details"     bson:"details"`
	FailedAt   time.Time `grove:"failed_at"   bson:"failed_at"`
	CreatedAt  time.Time `grove:"created_at"  bson:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"  bson:"updated_at"`
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
