// Package event defines the closed set of domain events the announcement
// pipeline consumes.
//
// Every variant embeds an Envelope and is a plain value: it is created once
// by the emitting domain module and never mutated. Kind identifies the
// variant; the registry maps kinds to event names and handlers.
package event

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every event variant in this package and by no
// other type.
type Event interface {
	// Kind identifies the variant.
	Kind() Kind

	// Meta returns the common envelope.
	Meta() Envelope

	// Attributes returns the values webhooks may filter on, already
	// stringified. Variants without filterable attributes return nil.
	Attributes() Attributes

	isEvent()
}

// Envelope carries the fields every event has.
type Envelope struct {
	OccurredAt time.Time `json:"occurred_at"`

	// Initiator is the acting user, or nil when the system acted.
	Initiator *User `json:"initiator,omitempty"`
}

// Meta returns the envelope itself.
func (e Envelope) Meta() Envelope { return e }

func (Envelope) isEvent() {}

// User describes a user as seen at emission time.
type User struct {
	ID         uuid.UUID `json:"id"`
	ScreenName *string   `json:"screen_name,omitempty"`
}

// NewUser returns a User. An empty screen name is stored as absent.
func NewUser(userID uuid.UUID, screenName string) User {
	u := User{ID: userID}
	if screenName != "" {
		u.ScreenName = &screenName
	}
	return u
}

// Ref returns a pointer to a copy of u, for optional user fields.
func (u User) Ref() *User { return &u }

// Attributes maps filterable attribute names to their string values.
type Attributes map[string]string

// Filterable attribute names.
const (
	AttrBoardID   = "board_id"
	AttrBrandID   = "brand_id"
	AttrChannelID = "channel_id"
	AttrShopID    = "shop_id"
	AttrPartyID   = "party_id"
	AttrTourneyID = "tourney_id"
	AttrSiteID    = "site_id"
	AttrScope     = "scope"
	AttrListID    = "list_id"
	AttrRoleID    = "role_id"
	AttrService   = "service"
	AttrBadgeID   = "badge_id"
	AttrUserID    = "user_id"
)

// Carries reports whether the variant of ev has a payload field named
// attr, by its JSON name. Envelope fields count.
func Carries(ev Event, attr string) bool {
	_, ok := fieldNames(reflect.TypeOf(ev))[attr]
	return ok
}

var fieldCache sync.Map // reflect.Type -> map[string]struct{}

func fieldNames(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.(map[string]struct{}) //nolint:forcetypeassert // cache holds only this type
	}

	names := make(map[string]struct{})
	collectFieldNames(t, names)
	fieldCache.Store(t, names)

	return names
}

func collectFieldNames(t reflect.Type, names map[string]struct{}) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if f.Anonymous && tag == "" {
			collectFieldNames(f.Type, names)
			continue
		}
		if !f.IsExported() || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		names[name] = struct{}{}
	}
}
