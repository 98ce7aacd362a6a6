package webhook

import "encoding/json"

// Input is the admin payload for creating or replacing a webhook.
type Input struct {
	EventTypes   []string        `json:"event_types"`
	EventFilters json.RawMessage `json:"event_filters,omitempty"`
	Format       Format          `json:"format"`
	TextPrefix   *string         `json:"text_prefix,omitempty"`
	ExtraFields  json.RawMessage `json:"extra_fields,omitempty"`
	URL          string          `json:"url"`
	Description  *string         `json:"description,omitempty"`
	Enabled      bool            `json:"enabled"`
}

// ListOpts configures pagination and filtering for listing webhooks.
type ListOpts struct {
	Offset  int
	Limit   int
	Enabled *bool
	Format  Format
}
