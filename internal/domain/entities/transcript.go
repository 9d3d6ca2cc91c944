package entities

import (
	"fmt"
	"strings"
	"time"
)

// Speaker is a meeting participant. Name is the join key used throughout
// the pipeline; there is no separate identity system.
type Speaker struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// DialogueTurn is a single speaker turn. Ordering is positional in the
// containing slice.
type DialogueTurn struct {
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
}

// Transcript is the pipeline input. At least one of Turns or RawText should
// be present for extraction to be meaningful.
type Transcript struct {
	MeetingID    string         `json:"meeting_id"`
	Title        string         `json:"title"`
	Date         time.Time      `json:"date"`
	Tier         Tier           `json:"tier"`
	Participants []Speaker      `json:"participants,omitempty"`
	Turns        []DialogueTurn `json:"turns,omitempty"`
	RawText      string         `json:"raw_text,omitempty"`
}

// PlainText returns the transcript as flat text, preferring RawText and
// falling back to "[timestamp] speaker: text" lines in turn order.
func (t *Transcript) PlainText() string {
	if t.RawText != "" {
		return t.RawText
	}
	if len(t.Turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.Turns))
	for _, turn := range t.Turns {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", turn.Timestamp, turn.Speaker, turn.Text))
	}
	return strings.Join(lines, "\n")
}

// WithRedactedText returns a copy of the transcript carrying the redacted
// text as RawText. Turns are dropped so downstream consumers read the
// redacted form only.
func (t *Transcript) WithRedactedText(redacted string) *Transcript {
	return &Transcript{
		MeetingID:    t.MeetingID,
		Title:        t.Title,
		Date:         t.Date,
		Tier:         t.Tier,
		Participants: t.Participants,
		RawText:      redacted,
	}
}
