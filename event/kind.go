package event

import "strconv"

// Kind identifies an event variant.
type Kind uint8

// Event kinds, one per variant.
const (
	KindInvalid Kind = iota

	KindPasswordUpdated
	KindUserLoggedIn
	KindRoleAssignedToUser
	KindRoleDeassignedFromUser

	KindBoardTopicCreated
	KindBoardTopicHidden
	KindBoardTopicLocked
	KindBoardTopicMoved
	KindBoardTopicPinned
	KindBoardTopicUnhidden
	KindBoardTopicUnlocked
	KindBoardTopicUnpinned
	KindBoardPostingCreated
	KindBoardPostingHidden
	KindBoardPostingUnhidden

	KindExternalAccountConnected
	KindExternalAccountDisconnected

	KindGuestServerApproved
	KindGuestServerCheckedIn
	KindGuestServerCheckedOut
	KindGuestServerRegistered

	KindNewsItemPublished
	KindNewsletterSubscribed
	KindNewsletterUnsubscribed
	KindOrgaStatusGranted
	KindOrgaStatusRevoked

	KindPageCreated
	KindPageDeleted
	KindPageUpdated

	KindShopOrderCanceled
	KindShopOrderPaid
	KindShopOrderPlaced

	KindSnippetCreated
	KindSnippetDeleted
	KindSnippetUpdated

	KindTicketCheckedIn
	KindTicketsSold

	KindTourneyCanceled
	KindTourneyFinished
	KindTourneyPaused
	KindTourneyStarted
	KindTourneyMatchReady
	KindTourneyMatchReset
	KindTourneyMatchScoreSubmitted
	KindTourneyMatchScoreConfirmed
	KindTourneyMatchScoreRandomized
	KindTourneyParticipantReady
	KindTourneyParticipantEliminated
	KindTourneyParticipantWarned
	KindTourneyParticipantDisqualified

	KindUserAccountCreated
	KindUserAccountDeleted
	KindUserAccountSuspended
	KindUserAccountUnsuspended
	KindUserDetailsUpdated
	KindUserEmailAddressChanged
	KindUserEmailAddressInvalidated
	KindUserScreenNameChanged
	KindUserBadgeAwarded

	kindCount
)

var kindTypeNames = [...]string{
	KindInvalid:                        "Invalid",
	KindPasswordUpdated:                "PasswordUpdated",
	KindUserLoggedIn:                   "UserLoggedIn",
	KindRoleAssignedToUser:             "RoleAssignedToUser",
	KindRoleDeassignedFromUser:         "RoleDeassignedFromUser",
	KindBoardTopicCreated:              "BoardTopicCreated",
	KindBoardTopicHidden:               "BoardTopicHidden",
	KindBoardTopicLocked:               "BoardTopicLocked",
	KindBoardTopicMoved:                "BoardTopicMoved",
	KindBoardTopicPinned:               "BoardTopicPinned",
	KindBoardTopicUnhidden:             "BoardTopicUnhidden",
	KindBoardTopicUnlocked:             "BoardTopicUnlocked",
	KindBoardTopicUnpinned:             "BoardTopicUnpinned",
	KindBoardPostingCreated:            "BoardPostingCreated",
	KindBoardPostingHidden:             "BoardPostingHidden",
	KindBoardPostingUnhidden:           "BoardPostingUnhidden",
	KindExternalAccountConnected:       "ExternalAccountConnected",
	KindExternalAccountDisconnected:    "ExternalAccountDisconnected",
	KindGuestServerApproved:            "GuestServerApproved",
	KindGuestServerCheckedIn:           "GuestServerCheckedIn",
	KindGuestServerCheckedOut:          "GuestServerCheckedOut",
	KindGuestServerRegistered:          "GuestServerRegistered",
	KindNewsItemPublished:              "NewsItemPublished",
	KindNewsletterSubscribed:           "NewsletterSubscribed",
	KindNewsletterUnsubscribed:         "NewsletterUnsubscribed",
	KindOrgaStatusGranted:              "OrgaStatusGranted",
	KindOrgaStatusRevoked:              "OrgaStatusRevoked",
	KindPageCreated:                    "PageCreated",
	KindPageDeleted:                    "PageDeleted",
	KindPageUpdated:                    "PageUpdated",
	KindShopOrderCanceled:              "ShopOrderCanceled",
	KindShopOrderPaid:                  "ShopOrderPaid",
	KindShopOrderPlaced:                "ShopOrderPlaced",
	KindSnippetCreated:                 "SnippetCreated",
	KindSnippetDeleted:                 "SnippetDeleted",
	KindSnippetUpdated:                 "SnippetUpdated",
	KindTicketCheckedIn:                "TicketCheckedIn",
	KindTicketsSold:                    "TicketsSold",
	KindTourneyCanceled:                "TourneyCanceled",
	KindTourneyFinished:                "TourneyFinished",
	KindTourneyPaused:                  "TourneyPaused",
	KindTourneyStarted:                 "TourneyStarted",
	KindTourneyMatchReady:              "TourneyMatchReady",
	KindTourneyMatchReset:              "TourneyMatchReset",
	KindTourneyMatchScoreSubmitted:     "TourneyMatchScoreSubmitted",
	KindTourneyMatchScoreConfirmed:     "TourneyMatchScoreConfirmed",
	KindTourneyMatchScoreRandomized:    "TourneyMatchScoreRandomized",
	KindTourneyParticipantReady:        "TourneyParticipantReady",
	KindTourneyParticipantEliminated:   "TourneyParticipantEliminated",
	KindTourneyParticipantWarned:       "TourneyParticipantWarned",
	KindTourneyParticipantDisqualified: "TourneyParticipantDisqualified",
	KindUserAccountCreated:             "UserAccountCreated",
	KindUserAccountDeleted:             "UserAccountDeleted",
	KindUserAccountSuspended:           "UserAccountSuspended",
	KindUserAccountUnsuspended:         "UserAccountUnsuspended",
	KindUserDetailsUpdated:             "UserDetailsUpdated",
	KindUserEmailAddressChanged:        "UserEmailAddressChanged",
	KindUserEmailAddressInvalidated:    "UserEmailAddressInvalidated",
	KindUserScreenNameChanged:          "UserScreenNameChanged",
	KindUserBadgeAwarded:               "UserBadgeAwarded",
}

// String returns the Go type name of the variant, e.g. "BoardTopicCreated".
func (k Kind) String() string {
	if k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindTypeNames[k]
}

// Valid reports whether k names a variant.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

// AllKinds returns every valid kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, int(kindCount)-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
