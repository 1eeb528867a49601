package services

import (
	"time"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
)

// EventKind discriminates the events a transport hands to the BotService.
type EventKind int

const (
	// EventStart is the /start command.
	EventStart EventKind = iota + 1
	// EventQuery is a free-text search request.
	EventQuery
	// EventNavigate is a press on a prev/next control.
	EventNavigate
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventQuery:
		return "query"
	case EventNavigate:
		return "navigate"
	default:
		return "unknown"
	}
}

// Event is one user interaction, free of any transport type.
type Event struct {
	Kind   EventKind
	UserID int64
	Text   string    // query text, for EventQuery
	Action string    // present.ActionPrev or present.ActionNext, for EventNavigate
	At     time.Time // zero means now
}

// Reply tells the transport what to show.
//
// Text is rendered as MarkdownV2 when Markdown is set and as plain text
// otherwise. Edit asks to replace the message the navigation control belongs
// to instead of sending a new one. Notice is a short acknowledgement for the
// pressed control. Silent replies carry nothing to render besides Notice.
type Reply struct {
	Text     string            `json:"text,omitempty"`
	Markdown bool              `json:"markdown"`
	Controls []present.Control `json:"controls,omitempty"`
	Edit     bool              `json:"edit"`
	Notice   string            `json:"notice,omitempty"`
	Silent   bool              `json:"silent"`
}
