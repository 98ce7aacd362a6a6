package event

import "github.com/google/uuid"

type UserAccountCreated struct {
	Envelope
	User   User    `json:"user"`
	SiteID *string `json:"site_id,omitempty"`
}

// UserAccountDeleted carries only the id; the screen name is gone by the
// time the event is emitted.
type UserAccountDeleted struct {
	Envelope
	UserID uuid.UUID `json:"user_id"`
}

type UserAccountSuspended struct {
	Envelope
	User User `json:"user"`
}

type UserAccountUnsuspended struct {
	Envelope
	User User `json:"user"`
}

type UserDetailsUpdated struct {
	Envelope
	User User `json:"user"`
}

type UserEmailAddressChanged struct {
	Envelope
	User User `json:"user"`
}

type UserEmailAddressInvalidated struct {
	Envelope
	User   User   `json:"user"`
	Reason string `json:"reason,omitempty"`
}

type UserScreenNameChanged struct {
	Envelope
	UserID        uuid.UUID `json:"user_id"`
	OldScreenName *string   `json:"old_screen_name,omitempty"`
	NewScreenName *string   `json:"new_screen_name,omitempty"`
}

type UserBadgeAwarded struct {
	Envelope
	User       User   `json:"user"`
	BadgeID    string `json:"badge_id"`
	BadgeLabel string `json:"badge_label"`
}

type PasswordUpdated struct {
	Envelope
	User User `json:"user"`
}

type UserLoggedIn struct {
	Envelope
	User   User    `json:"user"`
	SiteID *string `json:"site_id,omitempty"`
}

type RoleAssignedToUser struct {
	Envelope
	User   User   `json:"user"`
	RoleID string `json:"role_id"`
}

type RoleDeassignedFromUser struct {
	Envelope
	User   User   `json:"user"`
	RoleID string `json:"role_id"`
}

type ExternalAccountConnected struct {
	Envelope
	User    User   `json:"user"`
	Service string `json:"service"`
}

type ExternalAccountDisconnected struct {
	Envelope
	User    User   `json:"user"`
	Service string `json:"service"`
}

func (UserAccountCreated) Kind() Kind          { return KindUserAccountCreated }
func (UserAccountDeleted) Kind() Kind          { return KindUserAccountDeleted }
func (UserAccountSuspended) Kind() Kind        { return KindUserAccountSuspended }
func (UserAccountUnsuspended) Kind() Kind      { return KindUserAccountUnsuspended }
func (UserDetailsUpdated) Kind() Kind          { return KindUserDetailsUpdated }
func (UserEmailAddressChanged) Kind() Kind     { return KindUserEmailAddressChanged }
func (UserEmailAddressInvalidated) Kind() Kind { return KindUserEmailAddressInvalidated }
func (UserScreenNameChanged) Kind() Kind       { return KindUserScreenNameChanged }
func (UserBadgeAwarded) Kind() Kind            { return KindUserBadgeAwarded }
func (PasswordUpdated) Kind() Kind             { return KindPasswordUpdated }
func (UserLoggedIn) Kind() Kind                { return KindUserLoggedIn }
func (RoleAssignedToUser) Kind() Kind          { return KindRoleAssignedToUser }
func (RoleDeassignedFromUser) Kind() Kind      { return KindRoleDeassignedFromUser }
func (ExternalAccountConnected) Kind() Kind    { return KindExternalAccountConnected }
func (ExternalAccountDisconnected) Kind() Kind { return KindExternalAccountDisconnected }

func userAttributes(userID uuid.UUID) Attributes {
	return Attributes{AttrUserID: userID.String()}
}

func (e UserAccountCreated) Attributes() Attributes          { return userAttributes(e.User.ID) }
func (e UserAccountDeleted) Attributes() Attributes          { return userAttributes(e.UserID) }
func (e UserAccountSuspended) Attributes() Attributes        { return userAttributes(e.User.ID) }
func (e UserAccountUnsuspended) Attributes() Attributes      { return userAttributes(e.User.ID) }
func (e UserDetailsUpdated) Attributes() Attributes          { return userAttributes(e.User.ID) }
func (e UserEmailAddressChanged) Attributes() Attributes     { return userAttributes(e.User.ID) }
func (e UserEmailAddressInvalidated) Attributes() Attributes { return userAttributes(e.User.ID) }
func (e UserScreenNameChanged) Attributes() Attributes       { return userAttributes(e.UserID) }
func (e PasswordUpdated) Attributes() Attributes             { return userAttributes(e.User.ID) }
func (e UserLoggedIn) Attributes() Attributes                { return userAttributes(e.User.ID) }

func (e UserBadgeAwarded) Attributes() Attributes {
	return Attributes{AttrBadgeID: e.BadgeID, AttrUserID: e.User.ID.String()}
}

func (e RoleAssignedToUser) Attributes() Attributes {
	return Attributes{AttrRoleID: e.RoleID, AttrUserID: e.User.ID.String()}
}

func (e RoleDeassignedFromUser) Attributes() Attributes {
	return Attributes{AttrRoleID: e.RoleID, AttrUserID: e.User.ID.String()}
}

func (e ExternalAccountConnected) Attributes() Attributes {
	return Attributes{AttrService: e.Service}
}

func (e ExternalAccountDisconnected) Attributes() Attributes {
	return Attributes{AttrService: e.Service}
}
