// Package ports defines the boundary contracts the pipeline consumes.
// Each port has one concrete adapter per external backend; the orchestrator
// depends only on these interfaces so tests can substitute deterministic
// fakes.
package ports

import (
	"context"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// ExtractionPort converts transcript text into a structured insights record.
// Implementations own their retry policy; a failure after bounded retries
// surfaces as an error.
type ExtractionPort interface {
	Extract(ctx context.Context, transcript *entities.Transcript) (*entities.Insights, error)
	// Model identifies the backing model for audit provenance.
	Model() string
}

// SentimentPort scores sentiment per distinct speaker name. Speakers with no
// text get a neutral result with 0.0 confidence; a transcript with no turns
// or raw text yields an empty list.
type SentimentPort interface {
	AnalyzeSpeakers(ctx context.Context, transcript *entities.Transcript) ([]entities.SentimentResult, error)
}

// RedactedEntity describes one PII span found by the redactor.
type RedactedEntity struct {
	Type  string  `json:"type"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// RedactionResult is the output of a redaction pass. When no entities are
// found the text comes back unchanged with RedactionCount zero.
type RedactionResult struct {
	RedactedText   string           `json:"redacted_text"`
	EntitiesFound  []RedactedEntity `json:"entities_found"`
	RedactionCount int              `json:"redaction_count"`
}

// RedactionPort detects and anonymizes PII in transcript text. It must be
// safe to call on already-redacted text. preserveSpeakers requests a
// best-effort restoration of placeholder tokens that follow a timestamp
// marker back to a preserved speaker's literal name.
type RedactionPort interface {
	RedactTranscript(ctx context.Context, text string, preserveSpeakers []string) (*RedactionResult, error)
}

// Embedder computes a fixed-length vector for a piece of text. Callers
// truncate input to a bounded prefix before embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
