package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

func TestDisabledExtractorRejectsExtraction(t *testing.T) {
	extractor := NewDisabledExtractor()

	insights, err := extractor.Extract(context.Background(), &entities.Transcript{
		MeetingID: "m1",
		Title:     "Weekly Sync",
		RawText:   "[00:00] Alice: hello",
	})
	require.Error(t, err)
	require.Nil(t, insights)
	require.Contains(t, err.Error(), "OPENAI_API_KEY")
	require.Equal(t, "disabled", extractor.Model())
}

func TestParseInsights(t *testing.T) {
	insights, err := parseInsights(`{"summary":"planning session","decisions":[],"action_items":[],"key_topics":[],"open_questions":[]}`)
	require.NoError(t, err)
	require.Equal(t, "planning session", insights.Summary)
}

func TestParseInsightsRequiresSummary(t *testing.T) {
	_, err := parseInsights(`{"decisions":[]}`)
	require.Error(t, err)

	_, err = parseInsights(`not json at all`)
	require.Error(t, err)
}

func TestExtractJSONStripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"summary\":\"fenced\"}\n```"
	require.Equal(t, `{"summary":"fenced"}`, extractJSON(fenced))

	bare := `{"summary":"bare"}`
	require.Equal(t, bare, extractJSON(bare))
}
