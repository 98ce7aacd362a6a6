// Package registry maps event kinds to their stable event names and
// announcement handlers.
//
// A Registry is populated once at startup and only read afterwards. It is
// safe for concurrent use; tests build isolated registries with New.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
)

var (
	// ErrUnregisteredEvent is returned when an event's kind has no entry.
	// It indicates a programming error in the emitting module.
	ErrUnregisteredEvent = errors.New("announce: unregistered event")

	// ErrConflictingRegistration is returned when a kind or a name is
	// registered twice with different values.
	ErrConflictingRegistration = errors.New("announce: conflicting registration")

	// ErrUnknownEventName is returned by KindFor for names nobody registered.
	ErrUnknownEventName = errors.New("announce: unknown event name")
)

type entry struct {
	name    string
	handler announcement.Handler
}

// Registry is the kind → (name, handler) table.
type Registry struct {
	mu     sync.RWMutex
	byKind map[event.Kind]entry
	byName map[string]event.Kind
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		byKind: make(map[event.Kind]entry),
		byName: make(map[string]event.Kind),
	}
}

// Register binds kind to name and handler. Registering the same triple
// again is a no-op; any other re-registration of kind or name fails with
// ErrConflictingRegistration.
func (r *Registry) Register(kind event.Kind, name string, handler announcement.Handler) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: invalid kind %d", ErrConflictingRegistration, kind)
	}
	if name == "" || handler == nil {
		return fmt.Errorf("%w: %s needs a name and a handler", ErrConflictingRegistration, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byKind[kind]; ok {
		if existing.name == name && sameHandler(existing.handler, handler) {
			return nil
		}
		return fmt.Errorf("%w: %s already registered as %q", ErrConflictingRegistration, kind, existing.name)
	}
	if other, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: name %q already used by %s", ErrConflictingRegistration, name, other)
	}

	r.byKind[kind] = entry{name: name, handler: handler}
	r.byName[name] = kind

	return nil
}

// MustRegister is Register for startup code; it panics on error.
func (r *Registry) MustRegister(kind event.Kind, name string, handler announcement.Handler) {
	if err := r.Register(kind, name, handler); err != nil {
		panic(err)
	}
}

// NameFor returns the event name of ev.
func (r *Registry) NameFor(ev event.Event) (string, error) {
	r.mu.RLock()
	e, ok := r.byKind[ev.Kind()]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnregisteredEvent, ev.Kind())
	}

	return e.name, nil
}

// HandlerFor returns the handler for kind, or nil.
func (r *Registry) HandlerFor(kind event.Kind) announcement.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byKind[kind].handler
}

// KindFor resolves an event name back to its kind.
func (r *Registry) KindFor(name string) (event.Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.byName[name]
	if !ok {
		return event.KindInvalid, fmt.Errorf("%w: %q", ErrUnknownEventName, name)
	}

	return kind, nil
}

// KnownNames returns all registered names in lexical order.
func (r *Registry) KnownNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)

	return names
}

// Names returns the registered names matching pattern (see Match).
func (r *Registry) Names(pattern string) []string {
	all := r.KnownNames()
	out := all[:0]
	for _, name := range all {
		if Match(pattern, name) {
			out = append(out, name)
		}
	}
	return out
}

// Missing returns the valid kinds without an entry.
func (r *Registry) Missing() []event.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []event.Kind
	for _, k := range event.AllKinds() {
		if _, ok := r.byKind[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func sameHandler(a, b announcement.Handler) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
