package repositories

import (
	"context"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// Metadata is the indexed summary of a stored meeting.
type Metadata struct {
	MeetingID   string `json:"meeting_id"`
	Tier        string `json:"tier"`
	Namespace   string `json:"namespace"`
	ProcessedAt string `json:"processed_at"`
	Title       string `json:"title"`
}

// StoredMeeting is the full record persisted per meeting: the flattened
// document used for embedding and previews, its metadata, and the complete
// processed meeting.
type StoredMeeting struct {
	Document         string                    `json:"document"`
	Metadata         Metadata                  `json:"metadata"`
	VectorID         string                    `json:"vector_id"`
	ProcessedMeeting entities.ProcessedMeeting `json:"processed_meeting"`
}

// SearchResult is a single semantic search hit within a namespace.
type SearchResult struct {
	MeetingID string   `json:"meeting_id"`
	Score     float64  `json:"score"`
	Content   string   `json:"content"`
	Metadata  Metadata `json:"metadata"`
}

// MeetingStore is namespace-partitioned persistence plus cosine-similarity
// search. Every key the store touches is scoped to its namespace; no
// operation reads or writes across namespaces.
type MeetingStore interface {
	// Namespace returns the partition this store is bound to.
	Namespace() string

	// AddMeeting persists the record, its index membership, and its
	// embedding, returning the namespace-qualified vector id. An existing
	// record for the same meeting id is overwritten.
	AddMeeting(ctx context.Context, meeting *entities.ProcessedMeeting) (string, error)

	// GetMeeting returns the stored record, or nil when absent.
	GetMeeting(ctx context.Context, meetingID string) (*StoredMeeting, error)

	// ListMeetings returns metadata for every stored meeting, sorted by
	// meeting id ascending.
	ListMeetings(ctx context.Context) ([]Metadata, error)

	// DeleteMeeting removes the record, embedding, and index membership as
	// one unit. Deleting an absent meeting is not an error.
	DeleteMeeting(ctx context.Context, meetingID string) error

	// Search ranks stored meetings by cosine similarity against the query
	// embedding, descending, returning at most limit results. An empty
	// namespace yields an empty slice.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	// SetTranscript stores the raw source transcript alongside the record.
	SetTranscript(ctx context.Context, meetingID, text string) error

	// GetTranscript returns the raw transcript, or "" when absent.
	GetTranscript(ctx context.Context, meetingID string) (string, error)

	// DeleteTranscript removes the raw transcript if present.
	DeleteTranscript(ctx context.Context, meetingID string) error
}
