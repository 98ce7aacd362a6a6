package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

// News items published ahead of time are announced when they go live.
func newsItemPublished(e event.NewsItemPublished, wh *webhook.Webhook) *announcement.Announcement {
	a := text(tr(msgNewsPublished, e.Title, link(e.ExternalURL, wh)))
	return deferUntil(a, e.OccurredAt, e.PublishedAt)
}

func pageCreated(e event.PageCreated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgPageCreated, initiator(e), e.PageName, e.SiteID))
}

func pageUpdated(e event.PageUpdated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgPageUpdated, initiator(e), e.PageName, e.SiteID))
}

func pageDeleted(e event.PageDeleted, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgPageDeleted, initiator(e), e.PageName, e.SiteID))
}

func snippetTypeLabel(t event.SnippetType) string {
	if t == event.SnippetTypeFragment {
		return tr(msgSnippetFragment)
	}
	return tr(msgSnippetDocument)
}

func snippetText(msg string, ev event.Event, s event.Snippet) *announcement.Announcement {
	return text(tr(msg, initiator(ev), snippetTypeLabel(s.SnippetType), s.SnippetName, s.Scope()))
}

func snippetCreated(e event.SnippetCreated, _ *webhook.Webhook) *announcement.Announcement {
	return snippetText(msgSnippetCreated, e, e.Snippet)
}

func snippetUpdated(e event.SnippetUpdated, _ *webhook.Webhook) *announcement.Announcement {
	return snippetText(msgSnippetUpdated, e, e.Snippet)
}

func snippetDeleted(e event.SnippetDeleted, _ *webhook.Webhook) *announcement.Announcement {
	return snippetText(msgSnippetDeleted, e, e.Snippet)
}
