package meeting

import (
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/internal/usecase/pipeline"
)

// ProcessResponse is returned by the process and upload endpoints.
type ProcessResponse struct {
	MeetingID    string                     `json:"meeting_id"`
	Status       string                     `json:"status"`
	Tier         string                     `json:"tier"`
	SourceFormat string                     `json:"source_format,omitempty"`
	Insights     entities.Insights          `json:"insights"`
	Sentiments   []entities.SentimentResult `json:"sentiments"`
	VectorID     string                     `json:"vector_id"`
	AuditLog     []entities.AuditEntry      `json:"audit_log"`
}

// SearchResponse echoes the query with its ranked hits.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []pipeline.SearchHit `json:"results"`
}

// ListResponse is the per-tier meeting listing.
type ListResponse struct {
	Tier     string                  `json:"tier"`
	Meetings []repositories.Metadata `json:"meetings"`
}

// TranscriptResponse returns the raw transcript stored beside a meeting.
type TranscriptResponse struct {
	MeetingID  string `json:"meeting_id"`
	Transcript string `json:"transcript"`
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Status    string `json:"status"`
	MeetingID string `json:"meeting_id"`
}

// HealthResponse reports service and redis connectivity status.
type HealthResponse struct {
	Status  string `json:"status"`
	Redis   string `json:"redis"`
	Version string `json:"version"`
}
