package assembly

import (
	"fmt"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/registry"
)

// Binding ties an event kind to its stable name and handler.
type Binding struct {
	Kind    event.Kind
	Name    string
	Handler announcement.Handler
}

var bindings = []Binding{
	{event.KindPasswordUpdated, "password-updated", handle(passwordUpdated)},
	{event.KindUserLoggedIn, "user-logged-in", handle(userLoggedIn)},
	{event.KindRoleAssignedToUser, "role-assigned-to-user", handle(roleAssignedToUser)},
	{event.KindRoleDeassignedFromUser, "role-deassigned-from-user", handle(roleDeassignedFromUser)},

	{event.KindBoardTopicCreated, "board-topic-created", handle(boardTopicCreated)},
	{event.KindBoardTopicHidden, "board-topic-hidden", handle(boardTopicHidden)},
	{event.KindBoardTopicLocked, "board-topic-locked", handle(boardTopicLocked)},
	{event.KindBoardTopicMoved, "board-topic-moved", handle(boardTopicMoved)},
	{event.KindBoardTopicPinned, "board-topic-pinned", handle(boardTopicPinned)},
	{event.KindBoardTopicUnhidden, "board-topic-unhidden", handle(boardTopicUnhidden)},
	{event.KindBoardTopicUnlocked, "board-topic-unlocked", handle(boardTopicUnlocked)},
	{event.KindBoardTopicUnpinned, "board-topic-unpinned", handle(boardTopicUnpinned)},
	{event.KindBoardPostingCreated, "board-posting-created", handle(boardPostingCreated)},
	{event.KindBoardPostingHidden, "board-posting-hidden", handle(boardPostingHidden)},
	{event.KindBoardPostingUnhidden, "board-posting-unhidden", handle(boardPostingUnhidden)},

	{event.KindExternalAccountConnected, "external-account-connected", handle(externalAccountConnected)},
	{event.KindExternalAccountDisconnected, "external-account-disconnected", handle(externalAccountDisconnected)},

	{event.KindGuestServerApproved, "guest-server-approved", handle(guestServerApproved)},
	{event.KindGuestServerCheckedIn, "guest-server-checked-in", handle(guestServerCheckedIn)},
	{event.KindGuestServerCheckedOut, "guest-server-checked-out", handle(guestServerCheckedOut)},
	{event.KindGuestServerRegistered, "guest-server-registered", handle(guestServerRegistered)},

	{event.KindNewsItemPublished, "news-item-published", handle(newsItemPublished)},
	{event.KindNewsletterSubscribed, "newsletter-subscribed", handle(newsletterSubscribed)},
	{event.KindNewsletterUnsubscribed, "newsletter-unsubscribed", handle(newsletterUnsubscribed)},
	{event.KindOrgaStatusGranted, "orga-status-granted", handle(orgaStatusGranted)},
	{event.KindOrgaStatusRevoked, "orga-status-revoked", handle(orgaStatusRevoked)},

	{event.KindPageCreated, "page-created", handle(pageCreated)},
	{event.KindPageDeleted, "page-deleted", handle(pageDeleted)},
	{event.KindPageUpdated, "page-updated", handle(pageUpdated)},

	{event.KindShopOrderCanceled, "shop-order-canceled", handle(shopOrderCanceled)},
	{event.KindShopOrderPaid, "shop-order-paid", handle(shopOrderPaid)},
	{event.KindShopOrderPlaced, "shop-order-placed", handle(shopOrderPlaced)},

	{event.KindSnippetCreated, "snippet-created", handle(snippetCreated)},
	{event.KindSnippetDeleted, "snippet-deleted", handle(snippetDeleted)},
	{event.KindSnippetUpdated, "snippet-updated", handle(snippetUpdated)},

	{event.KindTicketCheckedIn, "ticket-checked-in", handle(ticketCheckedIn)},
	{event.KindTicketsSold, "tickets-sold", handle(ticketsSold)},

	{event.KindTourneyCanceled, "tourney-canceled", handle(tourneyCanceled)},
	{event.KindTourneyFinished, "tourney-finished", handle(tourneyFinished)},
	{event.KindTourneyPaused, "tourney-paused", handle(tourneyPaused)},
	{event.KindTourneyStarted, "tourney-started", handle(tourneyStarted)},
	{event.KindTourneyMatchReady, "tourney-match-ready", handle(tourneyMatchReady)},
	{event.KindTourneyMatchReset, "tourney-match-reset", handle(tourneyMatchReset)},
	{event.KindTourneyMatchScoreSubmitted, "tourney-match-score-submitted", handle(tourneyMatchScoreSubmitted)},
	{event.KindTourneyMatchScoreConfirmed, "tourney-match-score-confirmed", handle(tourneyMatchScoreConfirmed)},
	{event.KindTourneyMatchScoreRandomized, "tourney-match-score-randomized", handle(tourneyMatchScoreRandomized)},
	{event.KindTourneyParticipantReady, "tourney-participant-ready", handle(tourneyParticipantReady)},
	{event.KindTourneyParticipantEliminated, "tourney-participant-eliminated", handle(tourneyParticipantEliminated)},
	{event.KindTourneyParticipantWarned, "tourney-participant-warned", handle(tourneyParticipantWarned)},
	{event.KindTourneyParticipantDisqualified, "tourney-participant-disqualified", handle(tourneyParticipantDisqualified)},

	{event.KindUserAccountCreated, "user-account-created", handle(userAccountCreated)},
	{event.KindUserAccountDeleted, "user-account-deleted", handle(userAccountDeleted)},
	{event.KindUserAccountSuspended, "user-account-suspended", handle(userAccountSuspended)},
	{event.KindUserAccountUnsuspended, "user-account-unsuspended", handle(userAccountUnsuspended)},
	{event.KindUserDetailsUpdated, "user-details-updated", handle(userDetailsUpdated)},
	{event.KindUserEmailAddressChanged, "user-email-address-changed", handle(userEmailAddressChanged)},
	{event.KindUserEmailAddressInvalidated, "user-email-address-invalidated", handle(userEmailAddressInvalidated)},
	{event.KindUserScreenNameChanged, "user-screen-name-changed", handle(userScreenNameChanged)},
	{event.KindUserBadgeAwarded, "user-badge-awarded", handle(userBadgeAwarded)},
}

// Bindings returns a copy of the built-in kind/name/handler table.
func Bindings() []Binding {
	return append([]Binding(nil), bindings...)
}

// Register adds every built-in binding to r and fails if any event kind is
// left without one.
func Register(r *registry.Registry) error {
	for _, b := range bindings {
		if err := r.Register(b.Kind, b.Name, b.Handler); err != nil {
			return err
		}
	}

	if missing := r.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: no binding for %v", registry.ErrUnregisteredEvent, missing)
	}

	return nil
}

// NewRegistry returns a registry populated with every built-in binding.
func NewRegistry() (*registry.Registry, error) {
	r := registry.New()
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
