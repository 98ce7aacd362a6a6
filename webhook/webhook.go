// Package webhook is the directory of outgoing webhooks: the records that
// say which remote endpoints hear about which events, in which wire format.
package webhook

import (
	"encoding/json"
	"slices"

	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
)

// Format is the wire format a webhook expects.
type Format string

const (
	FormatDiscord     Format = "discord"
	FormatMattermost  Format = "mattermost"
	FormatMatrix      Format = "matrix"
	FormatWeitersager Format = "weitersager"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatDiscord, FormatMattermost, FormatMatrix, FormatWeitersager}
}

// Supported reports whether f is one of Formats.
func (f Format) Supported() bool {
	return slices.Contains(Formats(), f)
}

// Webhook is an outgoing webhook record. EventFilters and ExtraFields are
// kept in their stored JSON form; Filters and Extra decode them.
type Webhook struct {
	entity.Entity

	ID id.ID `json:"id"`

	// EventTypes are the event names this webhook subscribes to.
	EventTypes []string `json:"event_types"`

	// EventFilters maps event names to attribute allow-lists.
	EventFilters json.RawMessage `json:"event_filters,omitempty"`

	Format Format `json:"format"`

	// TextPrefix is prepended verbatim to every text.
	TextPrefix *string `json:"text_prefix,omitempty"`

	// ExtraFields holds format parameters such as channel, key, room_id.
	ExtraFields json.RawMessage `json:"extra_fields,omitempty"`

	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	Enabled     bool    `json:"enabled"`
}

// Subscribes reports whether name is among the webhook's event types.
func (w *Webhook) Subscribes(name string) bool {
	return slices.Contains(w.EventTypes, name)
}

// Prefix returns the text prefix, or "".
func (w *Webhook) Prefix() string {
	if w.TextPrefix == nil {
		return ""
	}
	return *w.TextPrefix
}

// Filters decodes the event filters.
func (w *Webhook) Filters() (Filters, error) {
	return DecodeFilters(w.EventFilters)
}

// Extra decodes the extra fields.
func (w *Webhook) Extra() (ExtraFields, error) {
	return DecodeExtraFields(w.ExtraFields)
}

// CheckConfig decodes both JSON blobs and reports the first problem.
func (w *Webhook) CheckConfig() error {
	if _, err := w.Filters(); err != nil {
		return err
	}
	_, err := w.Extra()
	return err
}

// Channel returns extra_fields.channel, or "" when absent or unreadable.
func (w *Webhook) Channel() string {
	extra, err := w.Extra()
	if err != nil {
		return ""
	}
	ch, _ := extra.String("channel")
	return ch
}

// Filters maps event names to per-attribute allow-lists. A nil inner map
// (JSON null) accepts every instance of that event.
type Filters map[string]map[string][]string

// For returns the attribute constraints for an event name and whether any
// constraints apply.
func (f Filters) For(name string) (map[string][]string, bool) {
	attrs, ok := f[name]
	if !ok || attrs == nil {
		return nil, false
	}
	return attrs, true
}

// ExtraFields are format-specific parameters.
type ExtraFields map[string]any

// String returns a string-valued field.
func (e ExtraFields) String(key string) (string, bool) {
	v, ok := e[key].(string)
	return v, ok
}
