// Package selector decides whether a webhook wants a particular event
// instance, applying its subscriptions and per-event attribute filters.
package selector

import (
	"slices"

	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

// Matches reports whether wh should receive ev, published under name.
//
// The webhook must subscribe to name. Each attribute constraint in the
// filter for name must then hold:
//   - a filterable attribute matches when its string value is allowed; an
//     empty allow-list matches nothing
//   - an attribute the event carries but does not expose for filtering
//     places no constraint
//   - an attribute the event does not carry at all never matches
//
// A webhook whose filters cannot be decoded matches nothing.
func Matches(name string, wh *webhook.Webhook, ev event.Event) bool {
	if !wh.Subscribes(name) {
		return false
	}

	filters, err := wh.Filters()
	if err != nil {
		return false
	}

	return MatchesFilter(filters, name, ev)
}

// MatchesFilter applies the constraints filters holds for name to ev,
// without checking subscription.
func MatchesFilter(filters webhook.Filters, name string, ev event.Event) bool {
	constraints, ok := filters.For(name)
	if !ok {
		return true
	}

	attrs := ev.Attributes()
	for attr, allowed := range constraints {
		value, filterable := attrs[attr]
		switch {
		case filterable:
			if !slices.Contains(allowed, value) {
				return false
			}
		case event.Carries(ev, attr):
			continue
		default:
			return false
		}
	}

	return true
}
