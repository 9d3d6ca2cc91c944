package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

const extractionSystemPrompt = "You are an expert meeting analyst. Extract structured insights " +
	"from the provided transcript. Be thorough but concise. " +
	"Only extract information explicitly stated in the transcript. " +
	"Respond with a JSON object with fields: meeting_title, summary, " +
	"decisions (topic, decision, deciders, confidence 0-1), " +
	"action_items (task, owner, deadline, priority), " +
	"key_topics (name, importance high/medium/low, related_speakers), " +
	"open_questions (question, context, stakeholders)."

// Extractor converts transcript text into structured insights via an
// OpenAI-compatible chat completion endpoint.
type Extractor struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewExtractor creates an extraction client from config. Pass a nil logger
// to disable logging.
func NewExtractor(cfg *config.OpenAIConfig, logger *zap.Logger) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Extractor{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Model returns the backing model identifier for audit provenance.
func (e *Extractor) Model() string {
	return e.model
}

// Extract runs the chat completion and parses the structured response.
// Transient failures are retried with exponential backoff before the error
// surfaces to the caller.
func (e *Extractor) Extract(ctx context.Context, transcript *entities.Transcript) (*entities.Insights, error) {
	prompt := buildContext(transcript)

	var insights *entities.Insights
	extractFn := func() error {
		resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     e.model,
			MaxTokens: 4096,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty response from model")
		}

		parsed, err := parseInsights(resp.Choices[0].Message.Content)
		if err != nil {
			return err
		}
		insights = parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 60 * time.Second

	if err := backoff.Retry(extractFn, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), 3)); err != nil {
		if e.logger != nil {
			e.logger.Error("extraction failed after retries",
				zap.String("meeting_id", transcript.MeetingID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	insights.MeetingTitle = transcript.Title
	if !transcript.Date.IsZero() {
		insights.MeetingDate = transcript.Date.UTC().Format(time.RFC3339)
	}

	return insights, nil
}

// parseInsights decodes the model output, tolerating markdown code fences
// around the JSON body.
func parseInsights(raw string) (*entities.Insights, error) {
	raw = extractJSON(raw)

	var insights entities.Insights
	if err := json.Unmarshal([]byte(raw), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if insights.Summary == "" {
		return nil, fmt.Errorf("missing summary in response")
	}

	return &insights, nil
}

// extractJSON strips markdown code fences the model might wrap around JSON.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// buildContext renders the transcript into the prompt context.
func buildContext(t *entities.Transcript) string {
	names := make([]string, 0, len(t.Participants))
	for _, p := range t.Participants {
		names = append(names, p.Name)
	}

	lines := []string{
		fmt.Sprintf("Meeting: %s", t.Title),
		fmt.Sprintf("Date: %s", t.Date.UTC().Format(time.RFC3339)),
		fmt.Sprintf("Participants: %s", strings.Join(names, ", ")),
		"\n--- Transcript ---\n",
	}

	if len(t.Turns) > 0 {
		for _, turn := range t.Turns {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", turn.Timestamp, turn.Speaker, turn.Text))
		}
	} else if t.RawText != "" {
		lines = append(lines, t.RawText)
	}

	return strings.Join(lines, "\n")
}
