// Package analytics aggregates intelligence across every stored meeting.
// Stats is a full scan with no materialized view: aggregates are re-derived
// from source records on every call, so results are never stale.
package analytics

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

const (
	topTopicsLimit        = 20
	speakerSentimentLimit = 15
)

// TopicCount is one entry in the topic frequency ranking.
type TopicCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SpeakerSentiment is a per-speaker sentiment label histogram.
type SpeakerSentiment struct {
	Speaker  string `json:"speaker"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

func (s SpeakerSentiment) total() int {
	return s.Positive + s.Neutral + s.Negative
}

// Stats is the cross-namespace aggregate report.
type Stats struct {
	TotalMeetings         int                `json:"total_meetings"`
	TotalDecisions        int                `json:"total_decisions"`
	TotalActions          int                `json:"total_actions"`
	TotalQuestions        int                `json:"total_questions"`
	TotalSpeakers         int                `json:"total_speakers"`
	TierBreakdown         map[string]int     `json:"tier_breakdown"`
	SentimentDistribution map[string]int     `json:"sentiment_distribution"`
	TopTopics             []TopicCount       `json:"top_topics"`
	PriorityBreakdown     map[string]int     `json:"priority_breakdown"`
	SpeakerSentiments     []SpeakerSentiment `json:"speaker_sentiments"`
}

// DedupResult reports what an administrative dedup pass did.
type DedupResult struct {
	Kept    int `json:"kept"`
	Removed int `json:"removed"`
}

// Service aggregates and administers stored meetings across namespaces.
type Service interface {
	// Stats scans all namespaces and aggregates every stored record.
	Stats(ctx context.Context) (*Stats, error)

	// Deduplicate groups records per namespace by title, keeps the most
	// recently processed record per title, and deletes the rest including
	// any side-stored raw transcript. Administrative; never automatic.
	Deduplicate(ctx context.Context) (*DedupResult, error)
}

type service struct {
	stores map[entities.Tier]repositories.MeetingStore
	logger *zap.Logger
}

// NewService creates the aggregator over the tiered stores.
func NewService(stores map[entities.Tier]repositories.MeetingStore, logger *zap.Logger) Service {
	return &service{stores: stores, logger: logger}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		TierBreakdown:         map[string]int{},
		SentimentDistribution: map[string]int{},
		TopTopics:             []TopicCount{},
		PriorityBreakdown:     map[string]int{},
		SpeakerSentiments:     []SpeakerSentiment{},
	}

	topicCounts := map[string]int{}
	speakers := map[string]bool{}
	speakerHistograms := map[string]*SpeakerSentiment{}

	for _, tier := range entities.AllTiers {
		store, ok := s.stores[tier]
		if !ok {
			continue
		}

		metas, err := store.ListMeetings(ctx)
		if err != nil {
			return nil, apperrors.ErrStorageFailed("list_meetings", err)
		}

		for _, meta := range metas {
			record, err := store.GetMeeting(ctx, meta.MeetingID)
			if err != nil {
				s.logger.Warn("skipping unreadable record",
					zap.String("namespace", store.Namespace()),
					zap.String("meeting_id", meta.MeetingID),
					zap.Error(err),
				)
				continue
			}
			if record == nil {
				continue
			}

			s.accumulate(stats, record, topicCounts, speakers, speakerHistograms)
		}
	}

	stats.TotalSpeakers = len(speakers)
	stats.TopTopics = rankTopics(topicCounts)
	stats.SpeakerSentiments = rankSpeakerSentiments(speakerHistograms)

	return stats, nil
}

func (s *service) accumulate(
	stats *Stats,
	record *repositories.StoredMeeting,
	topicCounts map[string]int,
	speakers map[string]bool,
	speakerHistograms map[string]*SpeakerSentiment,
) {
	pm := record.ProcessedMeeting
	insights := pm.Insights

	stats.TotalMeetings++
	stats.TierBreakdown[string(pm.Tier)]++
	stats.TotalDecisions += len(insights.Decisions)
	stats.TotalActions += len(insights.ActionItems)
	stats.TotalQuestions += len(insights.OpenQuestions)

	for _, topic := range insights.KeyTopics {
		if topic.Name != "" {
			topicCounts[topic.Name]++
		}
	}

	for _, item := range insights.ActionItems {
		if item.Priority != "" {
			stats.PriorityBreakdown[strings.ToLower(item.Priority)]++
		}
		if item.Owner != "" {
			speakers[item.Owner] = true
		}
	}

	for _, sentiment := range pm.Sentiments {
		stats.SentimentDistribution[sentiment.OverallSentiment]++
		speakers[sentiment.Speaker] = true

		hist, ok := speakerHistograms[sentiment.Speaker]
		if !ok {
			hist = &SpeakerSentiment{Speaker: sentiment.Speaker}
			speakerHistograms[sentiment.Speaker] = hist
		}
		switch sentiment.OverallSentiment {
		case entities.SentimentPositive:
			hist.Positive++
		case entities.SentimentNegative:
			hist.Negative++
		default:
			hist.Neutral++
		}
	}
}

func (s *service) Deduplicate(ctx context.Context) (*DedupResult, error) {
	result := &DedupResult{}

	for _, tier := range entities.AllTiers {
		store, ok := s.stores[tier]
		if !ok {
			continue
		}

		metas, err := store.ListMeetings(ctx)
		if err != nil {
			return nil, apperrors.ErrStorageFailed("list_meetings", err)
		}

		byTitle := map[string][]repositories.Metadata{}
		for _, meta := range metas {
			byTitle[meta.Title] = append(byTitle[meta.Title], meta)
		}

		for _, group := range byTitle {
			// RFC3339 timestamps sort lexicographically; newest first.
			sort.Slice(group, func(i, j int) bool {
				return group[i].ProcessedAt > group[j].ProcessedAt
			})
			result.Kept++

			for _, dup := range group[1:] {
				if err := store.DeleteMeeting(ctx, dup.MeetingID); err != nil {
					return nil, apperrors.ErrStorageFailed("delete_meeting", err)
				}
				if err := store.DeleteTranscript(ctx, dup.MeetingID); err != nil {
					return nil, apperrors.ErrStorageFailed("delete_transcript", err)
				}
				result.Removed++

				s.logger.Info("removed duplicate meeting",
					zap.String("namespace", store.Namespace()),
					zap.String("meeting_id", dup.MeetingID),
				)
			}
		}
	}

	return result, nil
}

func rankTopics(counts map[string]int) []TopicCount {
	ranked := make([]TopicCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, TopicCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topTopicsLimit {
		ranked = ranked[:topTopicsLimit]
	}
	return ranked
}

func rankSpeakerSentiments(histograms map[string]*SpeakerSentiment) []SpeakerSentiment {
	ranked := make([]SpeakerSentiment, 0, len(histograms))
	for _, hist := range histograms {
		ranked = append(ranked, *hist)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total() != ranked[j].total() {
			return ranked[i].total() > ranked[j].total()
		}
		return ranked[i].Speaker < ranked[j].Speaker
	})
	if len(ranked) > speakerSentimentLimit {
		ranked = ranked[:speakerSentimentLimit]
	}
	return ranked
}
