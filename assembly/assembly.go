// Package assembly renders events into announcement texts.
//
// There is one handler per event kind. Handlers are pure: they read the
// event and the target webhook's format and return either an Announcement
// or nil to suppress delivery. All text goes through the German message
// catalog in locale.go; the caller's locale never applies.
package assembly

import (
	"time"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

// IRC color cards appended to participant warnings for weitersager targets.
// The space before the closing \x03 is the colored cell.
const (
	ircYellowCard = " \x038,8 \x03"
	ircRedCard    = " \x034,4 \x03"
)

// handle adapts a typed render function to the generic handler signature.
func handle[E event.Event](render func(e E, wh *webhook.Webhook) *announcement.Announcement) announcement.Handler {
	return func(_ string, ev event.Event, wh *webhook.Webhook) *announcement.Announcement {
		e, ok := ev.(E)
		if !ok {
			return nil
		}
		return render(e, wh)
	}
}

func text(s string) *announcement.Announcement {
	return &announcement.Announcement{Text: s}
}

// ScreenNameOrFallback returns the user's screen name, or the localized
// word for "Someone".
func ScreenNameOrFallback(u *event.User) string {
	if u == nil || u.ScreenName == nil || *u.ScreenName == "" {
		return tr(msgSomeone)
	}
	return *u.ScreenName
}

func initiator(ev event.Event) string {
	return ScreenNameOrFallback(ev.Meta().Initiator)
}

func name(u event.User) string {
	return ScreenNameOrFallback(&u)
}

func optionalName(s *string) string {
	if s == nil || *s == "" {
		return tr(msgSomeone)
	}
	return *s
}

// link formats a URL for the target; Discord gets angle brackets to
// suppress link previews.
func link(url string, wh *webhook.Webhook) string {
	if wh != nil && wh.Format == webhook.FormatDiscord {
		return "<" + url + ">"
	}
	return url
}

// boardSegment names the board inline for IRC targets only.
func boardSegment(b event.Board, wh *webhook.Webhook) string {
	if wh == nil || wh.Format != webhook.FormatWeitersager || b.BoardLabel == "" {
		return ""
	}
	return tr(msgInBoard, b.BoardLabel)
}

func isIRC(wh *webhook.Webhook) bool {
	return wh != nil && wh.Format == webhook.FormatWeitersager
}

// deferUntil sets AnnounceAt when at lies after the event occurred.
func deferUntil(a *announcement.Announcement, occurredAt, at time.Time) *announcement.Announcement {
	if at.After(occurredAt) {
		t := at.UTC()
		a.AnnounceAt = &t
	}
	return a
}
