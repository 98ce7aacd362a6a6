package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

func ticketCheckedIn(e event.TicketCheckedIn, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTicketCheckedIn, initiator(e), e.TicketCode, ScreenNameOrFallback(e.Occupant)))
}

func ticketsSold(e event.TicketsSold, _ *webhook.Webhook) *announcement.Announcement {
	s := tr(msgTicketsSold, name(e.Owner), e.Quantity)
	if e.TotalSold != nil {
		s += tr(msgTicketsTotal, *e.TotalSold)
	}
	return text(s)
}
