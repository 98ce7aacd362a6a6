package api

import (
	"encoding/json"
	"time"

	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/webhook"
)

// ---------------------------------------------------------------------------
// Webhook requests
// ---------------------------------------------------------------------------

// WebhookForgeRequest binds the body for POST /webhooks.
type WebhookForgeRequest struct {
	EventTypes   []string        `description:"Subscribed event names"                      json:"event_types"`
	EventFilters json.RawMessage `description:"Per-event attribute filters"                 json:"event_filters,omitempty"`
	Format       string          `description:"Payload format (discord, mattermost, ...)"   json:"format"`
	TextPrefix   *string         `description:"Text prepended to every announcement"        json:"text_prefix,omitempty"`
	ExtraFields  json.RawMessage `description:"Format-specific fields such as channel"      json:"extra_fields,omitempty"`
	URL          string          `description:"Target URL"                                  json:"url"`
	Description  *string         `description:"Webhook description"                         json:"description,omitempty"`
	Enabled      bool            `description:"Whether the webhook receives announcements"  json:"enabled"`
}

func (r *WebhookForgeRequest) input() webhook.Input {
	return webhook.Input{
		EventTypes:   r.EventTypes,
		EventFilters: r.EventFilters,
		Format:       webhook.Format(r.Format),
		TextPrefix:   r.TextPrefix,
		ExtraFields:  r.ExtraFields,
		URL:          r.URL,
		Description:  r.Description,
		Enabled:      r.Enabled,
	}
}

// ListWebhooksForgeRequest binds query parameters for GET /webhooks.
type ListWebhooksForgeRequest struct {
	Enabled string `description:"Filter by enabled flag (true/false)" query:"enabled"`
	Format  string `description:"Filter by format"                    query:"format"`
	Offset  int    `description:"Pagination offset"                   query:"offset"`
	Limit   int    `description:"Page size (default 50)"              query:"limit"`
}

// WebhookPathForgeRequest binds the path for /webhooks/:id routes.
type WebhookPathForgeRequest struct {
	ID string `description:"Webhook identifier" path:"id"`
}

// UpdateWebhookForgeRequest binds path + body for PUT /webhooks/:id.
type UpdateWebhookForgeRequest struct {
	ID string `description:"Webhook identifier" path:"id"`
	WebhookForgeRequest
}

// ---------------------------------------------------------------------------
// Event requests
// ---------------------------------------------------------------------------

// ListEventNamesForgeRequest binds query parameters for GET /event-names.
type ListEventNamesForgeRequest struct {
	Pattern string `description:"Wildcard pattern, e.g. board-*" query:"pattern"`
}

// AnnounceEventForgeRequest binds path + body for POST /events/:name.
type AnnounceEventForgeRequest struct {
	Name  string         `description:"Event name"                                        path:"name"`
	Event map[string]any `description:"Event fields; occurred_at defaults to the current time" json:"event"`
}

// ---------------------------------------------------------------------------
// Failure requests
// ---------------------------------------------------------------------------

// ListFailuresForgeRequest binds query parameters for GET /failures.
type ListFailuresForgeRequest struct {
	Kind      string     `description:"Filter by kind"               query:"kind"`
	EventName string     `description:"Filter by event name"         query:"event_name"`
	WebhookID string     `description:"Filter by webhook"            query:"webhook_id"`
	From      *time.Time `description:"Failed at or after (RFC 3339)"  query:"from"`
	To        *time.Time `description:"Failed at or before (RFC 3339)" query:"to"`
	Offset    int        `description:"Pagination offset"            query:"offset"`
	Limit     int        `description:"Page size (default 50)"       query:"limit"`
}

func (r *ListFailuresForgeRequest) opts() (failure.ListOpts, error) {
	limit := r.Limit
	if limit == 0 {
		limit = 50
	}

	opts := failure.ListOpts{
		Offset:    r.Offset,
		Limit:     limit,
		Kind:      failure.Kind(r.Kind),
		EventName: r.EventName,
		From:      r.From,
		To:        r.To,
	}
	if r.WebhookID != "" {
		whID, err := id.ParseWebhookID(r.WebhookID)
		if err != nil {
			return failure.ListOpts{}, invalidRequest("invalid webhook ID")
		}
		opts.WebhookID = &whID
	}
	return opts, nil
}

// PurgeFailuresForgeRequest binds query parameters for DELETE /failures.
type PurgeFailuresForgeRequest struct {
	Before *time.Time `description:"Delete entries that failed before this time (RFC 3339)" query:"before"`
}

// PurgeForgeResponse reports how many failure log entries were deleted.
type PurgeForgeResponse struct {
	Purged int64 `json:"purged"`
}

// FailurePathForgeRequest binds the path for /failures/:id routes.
type FailurePathForgeRequest struct {
	ID string `description:"Failure identifier" path:"id"`
}

// ---------------------------------------------------------------------------
// Job requests
// ---------------------------------------------------------------------------

// ListJobsForgeRequest binds query parameters for GET /jobs.
type ListJobsForgeRequest struct {
	State  string `description:"Filter by state (pending, running, delivered, failed)" query:"state"`
	Offset int    `description:"Pagination offset"      query:"offset"`
	Limit  int    `description:"Page size (default 50)" query:"limit"`
}

// StatsForgeRequest is an empty request for GET /stats.
type StatsForgeRequest struct{}
