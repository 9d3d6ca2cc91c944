package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func sampleTranscript() *entities.Transcript {
	return &entities.Transcript{
		MeetingID: "m1",
		Title:     "Sprint Review",
		Date:      time.Now(),
		Tier:      entities.TierOrdinary,
		Turns: []entities.DialogueTurn{
			{Timestamp: "00:00", Speaker: "Alice", Text: "Great progress this sprint, I am really happy with the results"},
			{Timestamp: "00:10", Speaker: "Bob", Text: "I am worried about the delayed migration, it is a blocker"},
			{Timestamp: "00:20", Speaker: "Alice", Text: "Agree, but the fix is already approved"},
			{Timestamp: "00:30", Speaker: "Bob", Text: "The bug count is still a problem"},
		},
	}
}

func TestOneResultPerSpeaker(t *testing.T) {
	a := NewAnalyzer()

	results, err := a.AnalyzeSpeakers(context.Background(), sampleTranscript())
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "Alice", results[0].Speaker)
	require.Equal(t, "Bob", results[1].Speaker)
}

func TestSentimentLabels(t *testing.T) {
	a := NewAnalyzer()

	results, err := a.AnalyzeSpeakers(context.Background(), sampleTranscript())
	require.NoError(t, err)

	require.Equal(t, entities.SentimentPositive, results[0].OverallSentiment)
	require.Equal(t, entities.SentimentNegative, results[1].OverallSentiment)
	for _, r := range results {
		require.GreaterOrEqual(t, r.Confidence, 0.0)
		require.LessOrEqual(t, r.Confidence, 1.0)
	}
}

func TestEmptyTranscriptYieldsNoResults(t *testing.T) {
	a := NewAnalyzer()

	results, err := a.AnalyzeSpeakers(context.Background(), &entities.Transcript{
		MeetingID: "empty",
		Title:     "Empty",
		Tier:      entities.TierOrdinary,
	})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSpeakerWithNoTextIsNeutralZeroConfidence(t *testing.T) {
	a := NewAnalyzer()

	results, err := a.AnalyzeSpeakers(context.Background(), &entities.Transcript{
		MeetingID: "m2",
		Title:     "Standup",
		Tier:      entities.TierOrdinary,
		Turns: []entities.DialogueTurn{
			{Timestamp: "00:00", Speaker: "Carol", Text: ""},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, entities.SentimentNeutral, results[0].OverallSentiment)
	require.Zero(t, results[0].Confidence)
}

func TestParsesRawTranscript(t *testing.T) {
	a := NewAnalyzer()

	raw := "[00:00] Alice: This launch was a great success\n" +
		"--- section break ---\n" +
		"[00:05] Bob: The rollout failed twice and I am frustrated\n" +
		"not a turn line\n"

	results, err := a.AnalyzeSpeakers(context.Background(), &entities.Transcript{
		MeetingID: "m3",
		Title:     "Raw",
		Tier:      entities.TierOrdinary,
		RawText:   raw,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "Alice", results[0].Speaker)
	require.Equal(t, entities.SentimentPositive, results[0].OverallSentiment)
	require.Equal(t, entities.SentimentNegative, results[1].OverallSentiment)
}

func TestKeyPhrasesCapped(t *testing.T) {
	a := NewAnalyzer()

	turns := make([]entities.DialogueTurn, 0, 6)
	for i := 0; i < 6; i++ {
		turns = append(turns, entities.DialogueTurn{
			Timestamp: "00:00",
			Speaker:   "Dave",
			Text:      "this is a fairly long sentence number " + string(rune('a'+i)),
		})
	}

	results, err := a.AnalyzeSpeakers(context.Background(), &entities.Transcript{
		MeetingID: "m4",
		Title:     "Phrases",
		Tier:      entities.TierOrdinary,
		Turns:     turns,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.LessOrEqual(t, len(results[0].KeyPhrases), 3)
	require.NotEmpty(t, results[0].KeyPhrases)
}
