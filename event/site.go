package event

import (
	"time"

	"github.com/google/uuid"
)

// NewsItemPublished is emitted when a news item is published. PublishedAt
// may lie after OccurredAt for items scheduled ahead of time.
type NewsItemPublished struct {
	Envelope
	ItemID      uuid.UUID `json:"item_id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	ExternalURL string    `json:"external_url"`
}

// Page identifies a site page.
type Page struct {
	PageID   uuid.UUID `json:"page_id"`
	SiteID   string    `json:"site_id"`
	PageName string    `json:"page_name"`
	Language string    `json:"language_code,omitempty"`
}

type PageCreated struct {
	Envelope
	Page
}

type PageUpdated struct {
	Envelope
	Page
}

type PageDeleted struct {
	Envelope
	Page
}

// SnippetType distinguishes documents from fragments.
type SnippetType string

const (
	SnippetTypeDocument SnippetType = "document"
	SnippetTypeFragment SnippetType = "fragment"
)

// Snippet identifies a snippet and the scope it lives in.
type Snippet struct {
	SnippetID   uuid.UUID   `json:"snippet_id"`
	SnippetType SnippetType `json:"snippet_type"`
	SnippetName string      `json:"snippet_name"`
	ScopeType   string      `json:"scope_type"`
	ScopeName   string      `json:"scope_name"`
}

// Scope renders the snippet scope as "type/name".
func (s Snippet) Scope() string {
	return s.ScopeType + "/" + s.ScopeName
}

type SnippetCreated struct {
	Envelope
	Snippet
}

type SnippetUpdated struct {
	Envelope
	Snippet
}

type SnippetDeleted struct {
	Envelope
	Snippet
}

func (NewsItemPublished) Kind() Kind { return KindNewsItemPublished }
func (PageCreated) Kind() Kind       { return KindPageCreated }
func (PageUpdated) Kind() Kind       { return KindPageUpdated }
func (PageDeleted) Kind() Kind       { return KindPageDeleted }
func (SnippetCreated) Kind() Kind    { return KindSnippetCreated }
func (SnippetUpdated) Kind() Kind    { return KindSnippetUpdated }
func (SnippetDeleted) Kind() Kind    { return KindSnippetDeleted }

func (e NewsItemPublished) Attributes() Attributes {
	return Attributes{AttrChannelID: e.ChannelID}
}

func (e PageCreated) Attributes() Attributes    { return Attributes{AttrSiteID: e.SiteID} }
func (e PageUpdated) Attributes() Attributes    { return Attributes{AttrSiteID: e.SiteID} }
func (e PageDeleted) Attributes() Attributes    { return Attributes{AttrSiteID: e.SiteID} }
func (e SnippetCreated) Attributes() Attributes { return Attributes{AttrScope: e.Scope()} }
func (e SnippetUpdated) Attributes() Attributes { return Attributes{AttrScope: e.Scope()} }
func (e SnippetDeleted) Attributes() Attributes { return Attributes{AttrScope: e.Scope()} }
