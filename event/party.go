package event

import "github.com/google/uuid"

// GuestServer identifies a guest server registered for a party.
type GuestServer struct {
	PartyID    string    `json:"party_id"`
	PartyTitle string    `json:"party_title"`
	ServerID   uuid.UUID `json:"server_id"`
	Owner      User      `json:"owner"`
}

type GuestServerRegistered struct {
	Envelope
	GuestServer
}

type GuestServerApproved struct {
	Envelope
	GuestServer
}

type GuestServerCheckedIn struct {
	Envelope
	GuestServer
}

type GuestServerCheckedOut struct {
	Envelope
	GuestServer
}

type OrgaStatusGranted struct {
	Envelope
	User       User   `json:"user"`
	BrandID    string `json:"brand_id"`
	BrandTitle string `json:"brand_title"`
}

type OrgaStatusRevoked struct {
	Envelope
	User       User   `json:"user"`
	BrandID    string `json:"brand_id"`
	BrandTitle string `json:"brand_title"`
}

type NewsletterSubscribed struct {
	Envelope
	User      User   `json:"user"`
	ListID    string `json:"list_id"`
	ListTitle string `json:"list_title"`
}

type NewsletterUnsubscribed struct {
	Envelope
	User      User   `json:"user"`
	ListID    string `json:"list_id"`
	ListTitle string `json:"list_title"`
}

func (GuestServerRegistered) Kind() Kind  { return KindGuestServerRegistered }
func (GuestServerApproved) Kind() Kind    { return KindGuestServerApproved }
func (GuestServerCheckedIn) Kind() Kind   { return KindGuestServerCheckedIn }
func (GuestServerCheckedOut) Kind() Kind  { return KindGuestServerCheckedOut }
func (OrgaStatusGranted) Kind() Kind      { return KindOrgaStatusGranted }
func (OrgaStatusRevoked) Kind() Kind      { return KindOrgaStatusRevoked }
func (NewsletterSubscribed) Kind() Kind   { return KindNewsletterSubscribed }
func (NewsletterUnsubscribed) Kind() Kind { return KindNewsletterUnsubscribed }

func (g GuestServer) attributes() Attributes { return Attributes{AttrPartyID: g.PartyID} }

func (e GuestServerRegistered) Attributes() Attributes  { return e.GuestServer.attributes() }
func (e GuestServerApproved) Attributes() Attributes    { return e.GuestServer.attributes() }
func (e GuestServerCheckedIn) Attributes() Attributes   { return e.GuestServer.attributes() }
func (e GuestServerCheckedOut) Attributes() Attributes  { return e.GuestServer.attributes() }
func (e OrgaStatusGranted) Attributes() Attributes      { return Attributes{AttrBrandID: e.BrandID} }
func (e OrgaStatusRevoked) Attributes() Attributes      { return Attributes{AttrBrandID: e.BrandID} }
func (e NewsletterSubscribed) Attributes() Attributes   { return Attributes{AttrListID: e.ListID} }
func (e NewsletterUnsubscribed) Attributes() Attributes { return Attributes{AttrListID: e.ListID} }
