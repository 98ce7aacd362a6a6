package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

func guestServerRegistered(e event.GuestServerRegistered, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgGuestServerRegistered, name(e.Owner), e.PartyTitle))
}

func guestServerApproved(e event.GuestServerApproved, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgGuestServerApproved, initiator(e), name(e.Owner), e.PartyTitle))
}

func guestServerCheckedIn(e event.GuestServerCheckedIn, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgGuestServerCheckedIn, initiator(e), name(e.Owner), e.PartyTitle))
}

func guestServerCheckedOut(e event.GuestServerCheckedOut, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgGuestServerCheckedOut, initiator(e), name(e.Owner), e.PartyTitle))
}

func orgaStatusGranted(e event.OrgaStatusGranted, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgOrgaGranted, initiator(e), name(e.User), e.BrandTitle))
}

func orgaStatusRevoked(e event.OrgaStatusRevoked, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgOrgaRevoked, initiator(e), name(e.User), e.BrandTitle))
}

func newsletterSubscribed(e event.NewsletterSubscribed, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgNewsletterSubscribed, name(e.User), e.ListTitle))
}

func newsletterUnsubscribed(e event.NewsletterUnsubscribed, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgNewsletterLeft, name(e.User), e.ListTitle))
}
