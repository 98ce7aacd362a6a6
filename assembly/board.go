package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

func boardTopicCreated(e event.BoardTopicCreated, wh *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTopicCreated,
		name(e.TopicCreator), boardSegment(e.Board, wh), e.TopicTitle, link(e.URL, wh)))
}

// topicModeration renders the hide/unhide/lock/unlock/pin/unpin family,
// which share one shape.
func topicModeration(msg string, moderator event.User, b event.Board, t event.Topic, wh *webhook.Webhook) *announcement.Announcement {
	return text(tr(msg,
		name(moderator), boardSegment(b, wh), t.TopicTitle, name(t.TopicCreator), link(t.URL, wh)))
}

func boardTopicHidden(e event.BoardTopicHidden, wh *webhook.Webhook) *announcement.Announcement {
	return topicModeration(msgTopicHidden, e.Moderator, e.Board, e.Topic, wh)
}

func boardTopicUnhidden(e event.BoardTopicUnhidden, wh *webhook.Webhook) *announcement.Announcement {
	return topicModeration(msgTopicUnhidden, e.Moderator, e.Board, e.Topic, wh)
}

func boardTopicLocked(e event.BoardTopicLocked, wh *webhook.Webhook) *announcement.Announcement {
	return topicModeration(msgTopicLocked, e.Moderator, e.Board, e.Topic, wh)
}

func boardTopicUnlocked(e event.BoardTopicUnlocked, wh *webhook.Webhook) *announcement.Announcement {
	return topicModeration(msgTopicUnlocked, e.Moderator, e.Board, e.Topic, wh)
}

func boardTopicPinned(e event.BoardTopicPinned, wh *webhook.Webhook) *announcement.Announcement {
	return topicModeration(msgTopicPinned, e.Moderator, e.Board, e.Topic, wh)
}

func boardTopicUnpinned(e event.BoardTopicUnpinned, wh *webhook.Webhook) *announcement.Announcement {
	return topicModeration(msgTopicUnpinned, e.Moderator, e.Board, e.Topic, wh)
}

func boardTopicMoved(e event.BoardTopicMoved, wh *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTopicMoved,
		name(e.Moderator), boardSegment(e.Board, wh), e.TopicTitle, name(e.TopicCreator),
		e.OldCategoryTitle, e.NewCategoryTitle, link(e.URL, wh)))
}

// Replies to muted topics are not announced.
func boardPostingCreated(e event.BoardPostingCreated, wh *webhook.Webhook) *announcement.Announcement {
	if e.TopicMuted {
		return nil
	}
	return text(tr(msgPostingCreated,
		name(e.PostingCreator), boardSegment(e.Board, wh), e.TopicTitle, link(e.URL, wh)))
}

func boardPostingHidden(e event.BoardPostingHidden, wh *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgPostingHidden,
		name(e.Moderator), boardSegment(e.Board, wh), name(e.PostingCreator), e.TopicTitle, link(e.URL, wh)))
}

func boardPostingUnhidden(e event.BoardPostingUnhidden, wh *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgPostingShown,
		name(e.Moderator), boardSegment(e.Board, wh), name(e.PostingCreator), e.TopicTitle, link(e.URL, wh)))
}
