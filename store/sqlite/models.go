package sqlite

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

// --- Webhook models ---

type webhookModel struct {
	grove.BaseModel `grove:"table:announce_webhooks"`

	ID           string    `grove:"id,pk"`
	EventTypes   string    `grove:"event_types"`   // JSON array
	EventFilters string    `grove:"event_filters"` // JSON object, "" when unset
	Format       string    `grove:"format"`
	TextPrefix   *string   `grove:"text_prefix"`
	ExtraFields  string    `grove:"extra_fields"` // JSON object, "" when unset
	URL          string    `grove:"url"`
	Description  *string   `grove:"description"`
	Enabled      bool      `grove:"enabled"`
	CreatedAt    time.Time `grove:"created_at"`
	UpdatedAt    time.Time `grove:"updated_at"`
}

func toWebhookModel(wh *webhook.Webhook) (*webhookModel, error) {
	eventTypes, err := json.Marshal(wh.EventTypes)
	if err != nil {
		return nil, fmt.Errorf("encode event types: %w", err)
	}
	return &webhookModel{
		ID:           wh.ID.String(),
		EventTypes:   string(eventTypes),
		EventFilters: string(wh.EventFilters),
		Format:       string(wh.Format),
		TextPrefix:   wh.TextPrefix,
		ExtraFields:  string(wh.ExtraFields),
		URL:          wh.URL,
		Description:  wh.Description,
		Enabled:      wh.Enabled,
		CreatedAt:    wh.CreatedAt,
		UpdatedAt:    wh.UpdatedAt,
	}, nil
}

func fromWebhookModel(m *webhookModel) (*webhook.Webhook, error) {
	whID, err := id.ParseWebhookID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse webhook ID %q: %w", m.ID, err)
	}
	var eventTypes []string
	if m.EventTypes != "" {
		if err := json.Unmarshal([]byte(m.EventTypes), &eventTypes); err != nil {
			return nil, fmt.Errorf("decode event types of webhook %q: %w", m.ID, err)
		}
	}
	return &webhook.Webhook{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:           whID,
		EventTypes:   eventTypes,
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

	ID             string     `grove:"id,pk"`
	WebhookID      string     `grove:"webhook_id"`
	EventName      string     `grove:"event_name"`
	Request        string     `grove:"request"` // JSON announcement.Request
	RunAt          time.Time  `grove:"run_at"`
	State          string     `grove:"state"`
	LastStatusCode int        `grove:"last_status_code"`
	LastError      string     `grove:"last_error"`
	LastLatencyMs  int        `grove:"last_latency_ms"`
	CompletedAt    *time.Time `grove:"completed_at"`
	CreatedAt      time.Time  `grove:"created_at"`
	UpdatedAt      time.Time  `grove:"updated_at"`
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

	ID         string    `grove:"id,pk"`
	Kind       string    `grove:"kind"`
	EventName  string    `grove:"event_name"`
	WebhookID  string    `grove:"webhook_id"`
	URL        string    `grove:"url"`
	StatusCode int       `grove:"status_code"`
	Details    string    `grove:"details"`
	FailedAt   time.Time `grove:"failed_at"`
	CreatedAt  time.Time `grove:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"`
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
