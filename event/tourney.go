package event

// Tourney identifies the tourney a tourney event is about.
type Tourney struct {
	TourneyID    string `json:"tourney_id"`
	TourneyTitle string `json:"tourney_title"`
}

// Participant is a tourney participant. Name may be absent.
type Participant struct {
	ID   string  `json:"id"`
	Name *string `json:"name,omitempty"`
}

// Match identifies a match. A nil participant is a bye.
type Match struct {
	MatchID      string       `json:"match_id"`
	Participant1 *Participant `json:"participant1,omitempty"`
	Participant2 *Participant `json:"participant2,omitempty"`
}

type TourneyStarted struct {
	Envelope
	Tourney
}

type TourneyPaused struct {
	Envelope
	Tourney
}

type TourneyCanceled struct {
	Envelope
	Tourney
}

type TourneyFinished struct {
	Envelope
	Tourney
}

type TourneyMatchReady struct {
	Envelope
	Tourney
	Match
}

type TourneyMatchReset struct {
	Envelope
	Tourney
	Match
}

type TourneyMatchScoreSubmitted struct {
	Envelope
	Tourney
	Match
}

type TourneyMatchScoreConfirmed struct {
	Envelope
	Tourney
	Match
}

type TourneyMatchScoreRandomized struct {
	Envelope
	Tourney
	Match
}

type TourneyParticipantReady struct {
	Envelope
	Tourney
	Participant Participant `json:"participant"`
}

type TourneyParticipantEliminated struct {
	Envelope
	Tourney
	Participant Participant `json:"participant"`
}

type TourneyParticipantWarned struct {
	Envelope
	Tourney
	Participant Participant `json:"participant"`
}

type TourneyParticipantDisqualified struct {
	Envelope
	Tourney
	Participant Participant `json:"participant"`
}

func (TourneyStarted) Kind() Kind                 { return KindTourneyStarted }
func (TourneyPaused) Kind() Kind                  { return KindTourneyPaused }
func (TourneyCanceled) Kind() Kind                { return KindTourneyCanceled }
func (TourneyFinished) Kind() Kind                { return KindTourneyFinished }
func (TourneyMatchReady) Kind() Kind              { return KindTourneyMatchReady }
func (TourneyMatchReset) Kind() Kind              { return KindTourneyMatchReset }
func (TourneyMatchScoreSubmitted) Kind() Kind     { return KindTourneyMatchScoreSubmitted }
func (TourneyMatchScoreConfirmed) Kind() Kind     { return KindTourneyMatchScoreConfirmed }
func (TourneyMatchScoreRandomized) Kind() Kind    { return KindTourneyMatchScoreRandomized }
func (TourneyParticipantReady) Kind() Kind        { return KindTourneyParticipantReady }
func (TourneyParticipantEliminated) Kind() Kind   { return KindTourneyParticipantEliminated }
func (TourneyParticipantWarned) Kind() Kind       { return KindTourneyParticipantWarned }
func (TourneyParticipantDisqualified) Kind() Kind { return KindTourneyParticipantDisqualified }

func (t Tourney) attributes() Attributes { return Attributes{AttrTourneyID: t.TourneyID} }

func (e TourneyStarted) Attributes() Attributes                 { return e.Tourney.attributes() }
func (e TourneyPaused) Attributes() Attributes                  { return e.Tourney.attributes() }
func (e TourneyCanceled) Attributes() Attributes                { return e.Tourney.attributes() }
func (e TourneyFinished) Attributes() Attributes                { return e.Tourney.attributes() }
func (e TourneyMatchReady) Attributes() Attributes              { return e.Tourney.attributes() }
func (e TourneyMatchReset) Attributes() Attributes              { return e.Tourney.attributes() }
func (e TourneyMatchScoreSubmitted) Attributes() Attributes     { return e.Tourney.attributes() }
func (e TourneyMatchScoreConfirmed) Attributes() Attributes     { return e.Tourney.attributes() }
func (e TourneyMatchScoreRandomized) Attributes() Attributes    { return e.Tourney.attributes() }
func (e TourneyParticipantReady) Attributes() Attributes        { return e.Tourney.attributes() }
func (e TourneyParticipantEliminated) Attributes() Attributes   { return e.Tourney.attributes() }
func (e TourneyParticipantWarned) Attributes() Attributes       { return e.Tourney.attributes() }
func (e TourneyParticipantDisqualified) Attributes() Attributes { return e.Tourney.attributes() }
