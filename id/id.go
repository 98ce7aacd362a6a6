// Package id provides the identifiers of webhooks, scheduled jobs and
// failure log entries.
//
// An ID prints as "whk_01h455vb4pex5vsknk084sn02q": a kind prefix, an
// underscore and a UUIDv7 in base32. Newer IDs sort after older ones.
package id

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

// Prefix is the kind part of an ID.
type Prefix string

const (
	PrefixWebhook Prefix = "whk"
	PrefixJob     Prefix = "job"
	PrefixFailure Prefix = "fail"
)

// ID is a prefixed identifier. The zero value is Nil.
//
//nolint:recvcheck // UnmarshalText and Scan need pointer receivers.
type ID struct {
	tid typeid.TypeID
	set bool
}

// Nil is the zero ID.
var Nil ID

// New returns a fresh ID of the given kind. It panics on a prefix that
// typeid rejects, which only a code change can cause.
func New(p Prefix) ID {
	tid, err := typeid.Generate(string(p))
	if err != nil {
		panic(fmt.Sprintf("id: cannot generate %q id: %v", p, err))
	}
	return ID{tid: tid, set: true}
}

func NewWebhookID() ID { return New(PrefixWebhook) }
func NewJobID() ID     { return New(PrefixJob) }
func NewFailureID() ID { return New(PrefixFailure) }

// Parse accepts an ID of any kind.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: empty id")
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: invalid id %q: %w", s, err)
	}
	return ID{tid: tid, set: true}, nil
}

// ParseWithPrefix is Parse restricted to one kind.
func ParseWithPrefix(s string, want Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if got := parsed.Prefix(); got != want {
		return Nil, fmt.Errorf("id: %q is a %q id, not %q", s, got, want)
	}
	return parsed, nil
}

func ParseWebhookID(s string) (ID, error) { return ParseWithPrefix(s, PrefixWebhook) }
func ParseJobID(s string) (ID, error)     { return ParseWithPrefix(s, PrefixJob) }
func ParseFailureID(s string) (ID, error) { return ParseWithPrefix(s, PrefixFailure) }

func (i ID) String() string {
	if !i.set {
		return ""
	}
	return i.tid.String()
}

// Prefix is "" for Nil.
func (i ID) Prefix() Prefix {
	if !i.set {
		return ""
	}
	return Prefix(i.tid.Prefix())
}

func (i ID) IsNil() bool { return !i.set }

// Compare orders by the printed form, which puts Nil first and otherwise
// follows creation time within a kind.
func (i ID) Compare(other ID) int {
	return strings.Compare(i.String(), other.String())
}

func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText turns empty input into Nil.
func (i *ID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Value stores Nil as NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.set {
		return nil, nil //nolint:nilnil // NULL
	}
	return i.String(), nil
}

func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	}
	return fmt.Errorf("id: unsupported scan source %T", src)
}
