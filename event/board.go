package event

import "github.com/google/uuid"

// Board locates a board event.
type Board struct {
	BrandID string `json:"brand_id"`
	BoardID string `json:"board_id"`

	// BoardLabel is the human-readable board name, inlined by IRC targets.
	BoardLabel string `json:"board_label,omitempty"`
}

func (b Board) attributes() Attributes {
	return Attributes{AttrBoardID: b.BoardID, AttrBrandID: b.BrandID}
}

// Topic describes the topic a board event is about.
type Topic struct {
	TopicID      uuid.UUID `json:"topic_id"`
	TopicCreator User      `json:"topic_creator"`
	TopicTitle   string    `json:"topic_title"`
	URL          string    `json:"url"`
}

// Posting describes the posting a board event is about.
type Posting struct {
	PostingID      uuid.UUID `json:"posting_id"`
	PostingCreator User      `json:"posting_creator"`
	TopicID        uuid.UUID `json:"topic_id"`
	TopicTitle     string    `json:"topic_title"`
	TopicMuted     bool      `json:"topic_muted"`
	URL            string    `json:"url"`
}

type BoardTopicCreated struct {
	Envelope
	Board
	Topic
}

type BoardTopicHidden struct {
	Envelope
	Board
	Topic
	Moderator User `json:"moderator"`
}

type BoardTopicUnhidden struct {
	Envelope
	Board
	Topic
	Moderator User `json:"moderator"`
}

type BoardTopicLocked struct {
	Envelope
	Board
	Topic
	Moderator User `json:"moderator"`
}

type BoardTopicUnlocked struct {
	Envelope
	Board
	Topic
	Moderator User `json:"moderator"`
}

type BoardTopicPinned struct {
	Envelope
	Board
	Topic
	Moderator User `json:"moderator"`
}

type BoardTopicUnpinned struct {
	Envelope
	Board
	Topic
	Moderator User `json:"moderator"`
}

type BoardTopicMoved struct {
	Envelope
	Board
	Topic
	Moderator        User   `json:"moderator"`
	OldCategoryTitle string `json:"old_category_title"`
	NewCategoryTitle string `json:"new_category_title"`
}

type BoardPostingCreated struct {
	Envelope
	Board
	Posting
}

type BoardPostingHidden struct {
	Envelope
	Board
	Posting
	Moderator User `json:"moderator"`
}

type BoardPostingUnhidden struct {
	Envelope
	Board
	Posting
	Moderator User `json:"moderator"`
}

func (BoardTopicCreated) Kind() Kind    { return KindBoardTopicCreated }
func (BoardTopicHidden) Kind() Kind     { return KindBoardTopicHidden }
func (BoardTopicUnhidden) Kind() Kind   { return KindBoardTopicUnhidden }
func (BoardTopicLocked) Kind() Kind     { return KindBoardTopicLocked }
func (BoardTopicUnlocked) Kind() Kind   { return KindBoardTopicUnlocked }
func (BoardTopicPinned) Kind() Kind     { return KindBoardTopicPinned }
func (BoardTopicUnpinned) Kind() Kind   { return KindBoardTopicUnpinned }
func (BoardTopicMoved) Kind() Kind      { return KindBoardTopicMoved }
func (BoardPostingCreated) Kind() Kind  { return KindBoardPostingCreated }
func (BoardPostingHidden) Kind() Kind   { return KindBoardPostingHidden }
func (BoardPostingUnhidden) Kind() Kind { return KindBoardPostingUnhidden }

func (e BoardTopicCreated) Attributes() Attributes    { return e.Board.attributes() }
func (e BoardTopicHidden) Attributes() Attributes     { return e.Board.attributes() }
func (e BoardTopicUnhidden) Attributes() Attributes   { return e.Board.attributes() }
func (e BoardTopicLocked) Attributes() Attributes     { return e.Board.attributes() }
func (e BoardTopicUnlocked) Attributes() Attributes   { return e.Board.attributes() }
func (e BoardTopicPinned) Attributes() Attributes     { return e.Board.attributes() }
func (e BoardTopicUnpinned) Attributes() Attributes   { return e.Board.attributes() }
func (e BoardTopicMoved) Attributes() Attributes      { return e.Board.attributes() }
func (e BoardPostingCreated) Attributes() Attributes  { return e.Board.attributes() }
func (e BoardPostingHidden) Attributes() Attributes   { return e.Board.attributes() }
func (e BoardPostingUnhidden) Attributes() Attributes { return e.Board.attributes() }
