package event

import "github.com/google/uuid"

type TicketCheckedIn struct {
	Envelope
	PartyID    string    `json:"party_id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	TicketCode string    `json:"ticket_code"`
	Occupant   *User     `json:"occupant,omitempty"`
}

// TicketsSold reports a paid ticket purchase. TotalSold, when set, is the
// party's running total after this sale.
type TicketsSold struct {
	Envelope
	PartyID   string `json:"party_id"`
	Owner     User   `json:"owner"`
	Quantity  int    `json:"quantity"`
	TotalSold *int   `json:"total_sold,omitempty"`
}

func (TicketCheckedIn) Kind() Kind { return KindTicketCheckedIn }
func (TicketsSold) Kind() Kind     { return KindTicketsSold }

func (e TicketCheckedIn) Attributes() Attributes { return Attributes{AttrPartyID: e.PartyID} }
func (e TicketsSold) Attributes() Attributes     { return Attributes{AttrPartyID: e.PartyID} }
