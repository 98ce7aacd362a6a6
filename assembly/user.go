package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

func userAccountCreated(e event.UserAccountCreated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgAccountCreated, initiator(e), name(e.User)))
}

func userAccountDeleted(e event.UserAccountDeleted, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgAccountDeleted, initiator(e), e.UserID.String()))
}

func userAccountSuspended(e event.UserAccountSuspended, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgAccountSuspended, initiator(e), name(e.User)))
}

func userAccountUnsuspended(e event.UserAccountUnsuspended, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgAccountUnsuspended, initiator(e), name(e.User)))
}

func userDetailsUpdated(e event.UserDetailsUpdated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgDetailsUpdated, initiator(e), name(e.User)))
}

func userEmailAddressChanged(e event.UserEmailAddressChanged, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgEmailChanged, initiator(e), name(e.User)))
}

func userEmailAddressInvalidated(e event.UserEmailAddressInvalidated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgEmailInvalidated, initiator(e), name(e.User)))
}

func userScreenNameChanged(e event.UserScreenNameChanged, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgScreenNameChanged,
		initiator(e), optionalName(e.OldScreenName), optionalName(e.NewScreenName)))
}

func userBadgeAwarded(e event.UserBadgeAwarded, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgBadgeAwarded, initiator(e), e.BadgeLabel, name(e.User)))
}

func passwordUpdated(e event.PasswordUpdated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgPasswordUpdated, initiator(e), name(e.User)))
}

func userLoggedIn(e event.UserLoggedIn, _ *webhook.Webhook) *announcement.Announcement {
	if e.SiteID != nil {
		return text(tr(msgLoggedInOnSite, name(e.User), *e.SiteID))
	}
	return text(tr(msgLoggedIn, name(e.User)))
}

func roleAssignedToUser(e event.RoleAssignedToUser, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgRoleAssigned, initiator(e), e.RoleID, name(e.User)))
}

func roleDeassignedFromUser(e event.RoleDeassignedFromUser, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgRoleDeassigned, initiator(e), e.RoleID, name(e.User)))
}

func externalAccountConnected(e event.ExternalAccountConnected, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgExternalConnected, name(e.User), e.Service))
}

func externalAccountDisconnected(e event.ExternalAccountDisconnected, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgExternalDisconnected, name(e.User), e.Service))
}
