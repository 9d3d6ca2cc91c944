package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/adapter/repository"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
	"github.com/johnquangdev/meeting-intelligence/pkg/embedding"
)

func newStores(t *testing.T) map[entities.Tier]repositories.MeetingStore {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return repository.NewTieredStores(rdb, embedding.NewHashEmbedder(embedding.DefaultDimensions), zap.NewNop())
}

func storedMeeting(id, title string, tier entities.Tier, processedAt time.Time) *entities.ProcessedMeeting {
	return &entities.ProcessedMeeting{
		MeetingID:   id,
		Tier:        tier,
		ProcessedAt: processedAt,
		Insights: entities.Insights{
			MeetingTitle: title,
			Summary:      "summary for " + title,
			Decisions: []entities.Decision{
				{Topic: "roadmap", Decision: "ship in Q4", Confidence: 0.8},
			},
			ActionItems: []entities.ActionItem{
				{Task: "write proposal", Owner: "Alice", Priority: "High"},
				{Task: "review budget", Owner: "Bob", Priority: "low"},
			},
			KeyTopics: []entities.Topic{
				{Name: "roadmap", Importance: "high"},
				{Name: "budget", Importance: "medium"},
			},
			OpenQuestions: []entities.OpenQuestion{
				{Question: "who owns rollout"},
			},
		},
		Sentiments: []entities.SentimentResult{
			{Speaker: "Alice", OverallSentiment: entities.SentimentPositive, Confidence: 0.8, KeyPhrases: []string{}},
			{Speaker: "Bob", OverallSentiment: entities.SentimentNegative, Confidence: 0.7, KeyPhrases: []string{}},
		},
		AuditLog: []entities.AuditEntry{},
	}
}

func TestStatsEmptyStores(t *testing.T) {
	svc := NewService(newStores(t), zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalMeetings)
	require.Empty(t, stats.TopTopics)
	require.Empty(t, stats.SpeakerSentiments)
}

func TestStatsAggregatesAcrossNamespaces(t *testing.T) {
	stores := newStores(t)
	svc := NewService(stores, zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := stores[entities.TierOrdinary].AddMeeting(ctx, storedMeeting("m1", "Roadmap Review", entities.TierOrdinary, now))
	require.NoError(t, err)
	_, err = stores[entities.TierOrdinary].AddMeeting(ctx, storedMeeting("m2", "Budget Sync", entities.TierOrdinary, now))
	require.NoError(t, err)
	_, err = stores[entities.TierSensitive].AddMeeting(ctx, storedMeeting("m3", "Compensation Review", entities.TierSensitive, now))
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, stats.TotalMeetings)
	require.Equal(t, 3, stats.TotalDecisions)
	require.Equal(t, 6, stats.TotalActions)
	require.Equal(t, 3, stats.TotalQuestions)
	require.Equal(t, 2, stats.TotalSpeakers)

	require.Equal(t, map[string]int{"ordinary": 2, "sensitive": 1}, stats.TierBreakdown)
	require.Equal(t, map[string]int{"positive": 3, "negative": 3}, stats.SentimentDistribution)
	require.Equal(t, map[string]int{"high": 3, "low": 3}, stats.PriorityBreakdown)

	require.Len(t, stats.TopTopics, 2)
	require.Equal(t, TopicCount{Name: "budget", Count: 3}, stats.TopTopics[0])
	require.Equal(t, TopicCount{Name: "roadmap", Count: 3}, stats.TopTopics[1])

	require.Len(t, stats.SpeakerSentiments, 2)
	require.Equal(t, "Alice", stats.SpeakerSentiments[0].Speaker)
	require.Equal(t, 3, stats.SpeakerSentiments[0].Positive)
	require.Equal(t, "Bob", stats.SpeakerSentiments[1].Speaker)
	require.Equal(t, 3, stats.SpeakerSentiments[1].Negative)
}

func TestStatsSkipsCorruptRecord(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	stores := repository.NewTieredStores(rdb, embedding.NewHashEmbedder(embedding.DefaultDimensions), zap.NewNop())
	svc := NewService(stores, zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := stores[entities.TierOrdinary].AddMeeting(ctx, storedMeeting("m1", "Intact", entities.TierOrdinary, now))
	require.NoError(t, err)
	_, err = stores[entities.TierOrdinary].AddMeeting(ctx, storedMeeting("bad", "Corrupt", entities.TierOrdinary, now))
	require.NoError(t, err)

	require.NoError(t, rdb.Set(ctx, "meeting:ordinary:bad", "{not json", 0).Err())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalMeetings)
	require.Equal(t, map[string]int{"ordinary": 1}, stats.TierBreakdown)
}

func TestDeduplicateKeepsNewestPerTitle(t *testing.T) {
	stores := newStores(t)
	svc := NewService(stores, zap.NewNop())
	ctx := context.Background()
	store := stores[entities.TierOrdinary]

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		_, err := store.AddMeeting(ctx, storedMeeting(id, "Weekly Sync", entities.TierOrdinary, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		require.NoError(t, store.SetTranscript(ctx, id, "transcript for "+id))
	}
	_, err := store.AddMeeting(ctx, storedMeeting("m4", "Retro", entities.TierOrdinary, base))
	require.NoError(t, err)

	result, err := svc.Deduplicate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Kept)
	require.Equal(t, 2, result.Removed)

	// Newest "Weekly Sync" record survives with its transcript.
	record, err := store.GetMeeting(ctx, "m3")
	require.NoError(t, err)
	require.NotNil(t, record)
	text, err := store.GetTranscript(ctx, "m3")
	require.NoError(t, err)
	require.NotEmpty(t, text)

	for _, id := range []string{"m1", "m2"} {
		record, err := store.GetMeeting(ctx, id)
		require.NoError(t, err)
		require.Nil(t, record)

		text, err := store.GetTranscript(ctx, id)
		require.NoError(t, err)
		require.Empty(t, text)
	}

	metas, err := store.ListMeetings(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
}

func TestDeduplicateIsPerNamespace(t *testing.T) {
	stores := newStores(t)
	svc := NewService(stores, zap.NewNop())
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := stores[entities.TierOrdinary].AddMeeting(ctx, storedMeeting("m1", "Review", entities.TierOrdinary, now))
	require.NoError(t, err)
	_, err = stores[entities.TierSensitive].AddMeeting(ctx, storedMeeting("m2", "Review", entities.TierSensitive, now))
	require.NoError(t, err)

	result, err := svc.Deduplicate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, result.Kept)
	require.Zero(t, result.Removed)
}
