package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by Decode for a kind without a variant.
var ErrUnknownKind = errors.New("event: unknown kind")

type decoder func(data []byte) (Event, error)

func decodeAs[T Event](data []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var decoders = map[Kind]decoder{
	KindPasswordUpdated:                decodeAs[PasswordUpdated],
	KindUserLoggedIn:                   decodeAs[UserLoggedIn],
	KindRoleAssignedToUser:             decodeAs[RoleAssignedToUser],
	KindRoleDeassignedFromUser:         decodeAs[RoleDeassignedFromUser],
	KindBoardTopicCreated:              decodeAs[BoardTopicCreated],
	KindBoardTopicHidden:               decodeAs[BoardTopicHidden],
	KindBoardTopicLocked:               decodeAs[BoardTopicLocked],
	KindBoardTopicMoved:                decodeAs[BoardTopicMoved],
	KindBoardTopicPinned:               decodeAs[BoardTopicPinned],
	KindBoardTopicUnhidden:             decodeAs[BoardTopicUnhidden],
	KindBoardTopicUnlocked:             decodeAs[BoardTopicUnlocked],
	KindBoardTopicUnpinned:             decodeAs[BoardTopicUnpinned],
	KindBoardPostingCreated:            decodeAs[BoardPostingCreated],
	KindBoardPostingHidden:             decodeAs[BoardPostingHidden],
	KindBoardPostingUnhidden:           decodeAs[BoardPostingUnhidden],
	KindExternalAccountConnected:       decodeAs[ExternalAccountConnected],
	KindExternalAccountDisconnected:    decodeAs[ExternalAccountDisconnected],
	KindGuestServerApproved:            decodeAs[GuestServerApproved],
	KindGuestServerCheckedIn:           decodeAs[GuestServerCheckedIn],
	KindGuestServerCheckedOut:          decodeAs[GuestServerCheckedOut],
	KindGuestServerRegistered:          decodeAs[GuestServerRegistered],
	KindNewsItemPublished:              decodeAs[NewsItemPublished],
	KindNewsletterSubscribed:           decodeAs[NewsletterSubscribed],
	KindNewsletterUnsubscribed:         decodeAs[NewsletterUnsubscribed],
	KindOrgaStatusGranted:              decodeAs[OrgaStatusGranted],
	KindOrgaStatusRevoked:              decodeAs[OrgaStatusRevoked],
	KindPageCreated:                    decodeAs[PageCreated],
	KindPageDeleted:                    decodeAs[PageDeleted],
	KindPageUpdated:                    decodeAs[PageUpdated],
	KindShopOrderCanceled:              decodeAs[ShopOrderCanceled],
	KindShopOrderPaid:                  decodeAs[ShopOrderPaid],
	KindShopOrderPlaced:                decodeAs[ShopOrderPlaced],
	KindSnippetCreated:                 decodeAs[SnippetCreated],
	KindSnippetDeleted:                 decodeAs[SnippetDeleted],
	KindSnippetUpdated:                 decodeAs[SnippetUpdated],
	KindTicketCheckedIn:                decodeAs[TicketCheckedIn],
	KindTicketsSold:                    decodeAs[TicketsSold],
	KindTourneyCanceled:                decodeAs[TourneyCanceled],
	KindTourneyFinished:                decodeAs[TourneyFinished],
	KindTourneyPaused:                  decodeAs[TourneyPaused],
	KindTourneyStarted:                 decodeAs[TourneyStarted],
	KindTourneyMatchReady:              decodeAs[TourneyMatchReady],
	KindTourneyMatchReset:              decodeAs[TourneyMatchReset],
	KindTourneyMatchScoreSubmitted:     decodeAs[TourneyMatchScoreSubmitted],
	KindTourneyMatchScoreConfirmed:     decodeAs[TourneyMatchScoreConfirmed],
	KindTourneyMatchScoreRandomized:    decodeAs[TourneyMatchScoreRandomized],
	KindTourneyParticipantReady:        decodeAs[TourneyParticipantReady],
	KindTourneyParticipantEliminated:   decodeAs[TourneyParticipantEliminated],
	KindTourneyParticipantWarned:       decodeAs[TourneyParticipantWarned],
	KindTourneyParticipantDisqualified: decodeAs[TourneyParticipantDisqualified],
	KindUserAccountCreated:             decodeAs[UserAccountCreated],
	KindUserAccountDeleted:             decodeAs[UserAccountDeleted],
	KindUserAccountSuspended:           decodeAs[UserAccountSuspended],
	KindUserAccountUnsuspended:         decodeAs[UserAccountUnsuspended],
	KindUserDetailsUpdated:             decodeAs[UserDetailsUpdated],
	KindUserEmailAddressChanged:        decodeAs[UserEmailAddressChanged],
	KindUserEmailAddressInvalidated:    decodeAs[UserEmailAddressInvalidated],
	KindUserScreenNameChanged:          decodeAs[UserScreenNameChanged],
	KindUserBadgeAwarded:               decodeAs[UserBadgeAwarded],
}

// Decode builds the variant for kind from its JSON form. A missing
// occurred_at is left zero; callers that accept events from outside decide
// whether to stamp it.
func Decode(kind Kind, data []byte) (Event, error) {
	dec, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	ev, err := dec(data)
	if err != nil {
		return nil, fmt.Errorf("event: decode %s: %w", kind, err)
	}

	return ev, nil
}
