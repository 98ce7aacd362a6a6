package assembly

import (
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/webhook"
)

func participantName(p *event.Participant) string {
	if p == nil {
		return tr(msgBye)
	}
	if p.Name == nil || *p.Name == "" {
		return tr(msgUnnamed)
	}
	return *p.Name
}

func matchLabel(m event.Match) string {
	return `"` + participantName(m.Participant1) + `" vs. "` + participantName(m.Participant2) + `"`
}

func tourneyStarted(e event.TourneyStarted, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTourneyStarted, e.TourneyTitle))
}

func tourneyPaused(e event.TourneyPaused, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTourneyPaused, e.TourneyTitle))
}

func tourneyCanceled(e event.TourneyCanceled, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTourneyCanceled, e.TourneyTitle))
}

func tourneyFinished(e event.TourneyFinished, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgTourneyFinished, e.TourneyTitle))
}

// A match against a bye is not playable and is not announced.
func tourneyMatchReady(e event.TourneyMatchReady, _ *webhook.Webhook) *announcement.Announcement {
	if e.Participant1 == nil || e.Participant2 == nil {
		return nil
	}
	return text(tr(msgMatchReady, matchLabel(e.Match), e.TourneyTitle))
}

func tourneyMatchReset(e event.TourneyMatchReset, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgMatchReset, matchLabel(e.Match), e.TourneyTitle))
}

func tourneyMatchScoreSubmitted(e event.TourneyMatchScoreSubmitted, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgMatchScoreSubmitted, matchLabel(e.Match), e.TourneyTitle))
}

func tourneyMatchScoreConfirmed(e event.TourneyMatchScoreConfirmed, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgMatchScoreConfirmed, matchLabel(e.Match), e.TourneyTitle))
}

func tourneyMatchScoreRandomized(e event.TourneyMatchScoreRandomized, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgMatchScoreRandomized, matchLabel(e.Match), e.TourneyTitle))
}

func tourneyParticipantReady(e event.TourneyParticipantReady, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgParticipantReady, participantName(&e.Participant), e.TourneyTitle))
}

func tourneyParticipantEliminated(e event.TourneyParticipantEliminated, _ *webhook.Webhook) *announcement.Announcement {
	return text(tr(msgParticipantEliminated, participantName(&e.Participant), e.TourneyTitle))
}

func tourneyParticipantWarned(e event.TourneyParticipantWarned, wh *webhook.Webhook) *announcement.Announcement {
	s := tr(msgParticipantWarned, participantName(&e.Participant), e.TourneyTitle)
	if isIRC(wh) {
		s += ircYellowCard
	}
	return text(s)
}

func tourneyParticipantDisqualified(e event.TourneyParticipantDisqualified, wh *webhook.Webhook) *announcement.Announcement {
	s := tr(msgParticipantDisqualified, participantName(&e.Participant), e.TourneyTitle)
	if isIRC(wh) {
		s += ircRedCard
	}
	return text(s)
}
