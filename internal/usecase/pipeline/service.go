// Package pipeline orchestrates the transcript processing flow:
// classification, redaction for the sensitive tier, insight extraction,
// per-speaker sentiment, and persistence into the tier's namespace.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/ports"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

const previewLength = 200

// SearchHit is the trimmed search result returned to API consumers.
type SearchHit struct {
	MeetingID      string  `json:"meeting_id"`
	Score          float64 `json:"score"`
	Title          string  `json:"title"`
	Tier           string  `json:"tier"`
	ContentPreview string  `json:"content_preview"`
}

// Service runs transcripts through the processing pipeline and exposes
// tier-scoped search.
type Service interface {
	// Process transforms one transcript into one stored ProcessedMeeting.
	// Any port failure aborts the run; nothing is persisted on error.
	Process(ctx context.Context, transcript *entities.Transcript) (*entities.ProcessedMeeting, error)

	// SearchMeetings searches one namespace. A nil tier searches the
	// ordinary namespace only; the sensitive namespace is never included
	// in an unscoped search.
	SearchMeetings(ctx context.Context, query string, tier *entities.Tier, limit int) ([]SearchHit, error)

	// Store returns the namespace-bound store for a tier.
	Store(tier entities.Tier) (repositories.MeetingStore, bool)
}

type service struct {
	stores          map[entities.Tier]repositories.MeetingStore
	extractor       ports.ExtractionPort
	sentiment       ports.SentimentPort
	redactor        ports.RedactionPort
	enableRedaction bool
	logger          *zap.Logger
}

// NewService wires the pipeline. redactor may be nil when redaction is
// disabled.
func NewService(
	stores map[entities.Tier]repositories.MeetingStore,
	extractor ports.ExtractionPort,
	sentiment ports.SentimentPort,
	redactor ports.RedactionPort,
	enableRedaction bool,
	logger *zap.Logger,
) Service {
	return &service{
		stores:          stores,
		extractor:       extractor,
		sentiment:       sentiment,
		redactor:        redactor,
		enableRedaction: enableRedaction,
		logger:          logger,
	}
}

func (s *service) Process(ctx context.Context, transcript *entities.Transcript) (*entities.ProcessedMeeting, error) {
	tier := entities.ParseTier(string(transcript.Tier))
	if !tier.Valid() {
		return nil, apperrors.ErrInvalidTier(string(transcript.Tier))
	}
	store, ok := s.stores[tier]
	if !ok {
		return nil, apperrors.ErrInternal(fmt.Errorf("no store configured for tier %q", tier))
	}

	if transcript.MeetingID == "" {
		transcript.MeetingID = uuid.NewString()
	}

	auditLog := []entities.AuditEntry{
		entities.NewAuditEntry(entities.AuditStepClassification, map[string]interface{}{
			"tier": string(tier),
		}),
	}

	// Sentiment is computed on the original transcript regardless of
	// redaction; speaker attribution is structural, not content-derived.
	working := transcript
	if tier == entities.TierSensitive && s.enableRedaction && s.redactor != nil {
		result, err := s.redactor.RedactTranscript(ctx, transcript.PlainText(), speakerNames(transcript))
		if err != nil {
			return nil, apperrors.ErrRedactionFailed(err)
		}
		auditLog = append(auditLog, entities.NewAuditEntry(entities.AuditStepRedaction, map[string]interface{}{
			"entities_redacted": result.RedactionCount,
		}))
		working = transcript.WithRedactedText(result.RedactedText)
	}

	insights, err := s.extractor.Extract(ctx, working)
	if err != nil {
		return nil, apperrors.ErrExtractionFailed(err)
	}
	stampInsights(insights, transcript)
	auditLog = append(auditLog, entities.NewAuditEntry(entities.AuditStepExtraction, map[string]interface{}{
		"model": s.extractor.Model(),
	}))

	sentiments, err := s.sentiment.AnalyzeSpeakers(ctx, transcript)
	if err != nil {
		return nil, apperrors.ErrSentimentFailed(err)
	}
	auditLog = append(auditLog, entities.NewAuditEntry(entities.AuditStepSentiment, map[string]interface{}{
		"speakers_analyzed": len(sentiments),
	}))

	processed := &entities.ProcessedMeeting{
		MeetingID:  transcript.MeetingID,
		Tier:       tier,
		Insights:   *insights,
		Sentiments: sentiments,
		AuditLog:   auditLog,
	}

	vectorID, err := store.AddMeeting(ctx, processed)
	if err != nil {
		return nil, apperrors.ErrStorageFailed("add_meeting", err)
	}

	// The persisted record carries the log as it stood at write time; the
	// storage entry is appended to the returned record only.
	processed.AuditLog = append(processed.AuditLog, entities.NewAuditEntry(entities.AuditStepStorage, map[string]interface{}{
		"vector_id": vectorID,
		"namespace": store.Namespace(),
	}))

	s.logger.Info("meeting processed",
		zap.String("meeting_id", processed.MeetingID),
		zap.String("tier", string(tier)),
		zap.String("vector_id", vectorID),
		zap.Int("speakers", len(sentiments)),
	)

	return processed, nil
}

func (s *service) SearchMeetings(ctx context.Context, query string, tier *entities.Tier, limit int) ([]SearchHit, error) {
	target := entities.TierOrdinary
	if tier != nil {
		if !tier.Valid() {
			return nil, apperrors.ErrInvalidTier(string(*tier))
		}
		target = *tier
	}

	store, ok := s.stores[target]
	if !ok {
		return nil, apperrors.ErrInternal(fmt.Errorf("no store configured for tier %q", target))
	}

	results, err := store.Search(ctx, query, limit)
	if err != nil {
		return nil, apperrors.ErrSearchFailed(err)
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, SearchHit{
			MeetingID:      r.MeetingID,
			Score:          r.Score,
			Title:          r.Metadata.Title,
			Tier:           r.Metadata.Tier,
			ContentPreview: preview(r.Content),
		})
	}
	return hits, nil
}

func (s *service) Store(tier entities.Tier) (repositories.MeetingStore, bool) {
	store, ok := s.stores[tier]
	return store, ok
}

// stampInsights makes title and date caller-authoritative, overriding
// whatever the extraction port returned.
func stampInsights(insights *entities.Insights, transcript *entities.Transcript) {
	insights.MeetingTitle = transcript.Title
	if !transcript.Date.IsZero() {
		insights.MeetingDate = transcript.Date.UTC().Format(time.RFC3339)
	}
}

// preview truncates to the first previewLength characters, never splitting a
// multi-byte rune.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes) + "..."
}

// speakerNames collects distinct names from participants and turns for
// redaction-time speaker preservation.
func speakerNames(t *entities.Transcript) []string {
	seen := map[string]bool{}
	names := []string{}

	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, p := range t.Participants {
		add(p.Name)
	}
	for _, turn := range t.Turns {
		add(turn.Speaker)
	}
	return names
}
