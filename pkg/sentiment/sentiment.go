// Package sentiment scores per-speaker sentiment with a lexicon-based
// classifier. It runs fully in-process, which keeps the pipeline free of a
// second model dependency; swap in a remote adapter behind the same port for
// higher fidelity.
package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

var positiveWords = map[string]bool{
	"agree": true, "great": true, "good": true, "excellent": true, "love": true,
	"happy": true, "glad": true, "perfect": true, "awesome": true, "nice": true,
	"thanks": true, "thank": true, "appreciate": true, "excited": true,
	"confident": true, "progress": true, "success": true, "successful": true,
	"improved": true, "improvement": true, "win": true, "works": true,
	"solved": true, "resolved": true, "approve": true, "approved": true,
	"yes": true, "definitely": true, "absolutely": true, "fantastic": true,
}

var negativeWords = map[string]bool{
	"disagree": true, "bad": true, "terrible": true, "hate": true, "angry": true,
	"frustrated": true, "frustrating": true, "worried": true, "worry": true,
	"concern": true, "concerned": true, "problem": true, "problems": true,
	"issue": true, "issues": true, "blocked": true, "blocker": true, "fail": true,
	"failed": true, "failure": true, "delay": true, "delayed": true, "late": true,
	"risk": true, "risky": true, "broken": true, "bug": true, "bugs": true,
	"no": true, "never": true, "wrong": true, "difficult": true, "impossible": true,
}

// Analyzer scores sentiment per speaker.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeSpeakers returns exactly one result per distinct speaker name in
// the transcript, in first-seen order. A transcript with no turns and no raw
// text yields an empty list.
func (a *Analyzer) AnalyzeSpeakers(_ context.Context, transcript *entities.Transcript) ([]entities.SentimentResult, error) {
	speakers, texts := speakerTurns(transcript)

	results := make([]entities.SentimentResult, 0, len(speakers))
	for _, speaker := range speakers {
		results = append(results, a.analyzeSpeaker(speaker, texts[speaker]))
	}
	return results, nil
}

// analyzeSpeaker classifies one speaker's combined contributions.
func (a *Analyzer) analyzeSpeaker(speaker string, texts []string) entities.SentimentResult {
	if len(texts) == 0 {
		return entities.SentimentResult{
			Speaker:          speaker,
			OverallSentiment: entities.SentimentNeutral,
			Confidence:       0.0,
			KeyPhrases:       []string{},
		}
	}

	// Limit to the first 10 turns and 512 chars to bound scoring cost.
	sample := texts
	if len(sample) > 10 {
		sample = sample[:10]
	}
	combined := strings.Join(sample, " ")
	if len(combined) > 512 {
		combined = combined[:512]
	}

	label, confidence := score(combined)

	return entities.SentimentResult{
		Speaker:          speaker,
		OverallSentiment: label,
		Confidence:       confidence,
		KeyPhrases:       keyPhrases(texts),
	}
}

// score counts lexicon hits and maps the balance to a label. Confidence
// grows with the margin between positive and negative hits.
func score(text string) (string, float64) {
	pos, neg := 0, 0
	for _, word := range tokenize(text) {
		if positiveWords[word] {
			pos++
		}
		if negativeWords[word] {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return entities.SentimentNeutral, 0.5
	}

	margin := math.Abs(float64(pos-neg)) / float64(total)
	confidence := math.Min(1.0, 0.5+margin/2)

	switch {
	case pos > neg:
		return entities.SentimentPositive, confidence
	case neg > pos:
		return entities.SentimentNegative, confidence
	default:
		return entities.SentimentNeutral, 0.5
	}
}

// keyPhrases returns up to 3 leading phrases (first 8 words of a turn) from
// the speaker's non-trivial contributions.
func keyPhrases(texts []string) []string {
	phrases := []string{}
	for _, text := range texts {
		words := strings.Fields(text)
		if len(words) > 3 {
			n := len(words)
			if n > 8 {
				n = 8
			}
			phrase := strings.Join(words[:n], " ")
			if !contains(phrases, phrase) {
				phrases = append(phrases, phrase)
			}
		}
		if len(phrases) >= 3 {
			break
		}
	}
	return phrases
}

// speakerTurns groups turn texts by speaker, preserving first-seen order.
func speakerTurns(t *entities.Transcript) ([]string, map[string][]string) {
	order := []string{}
	texts := map[string][]string{}

	add := func(speaker, text string) {
		if _, seen := texts[speaker]; !seen {
			order = append(order, speaker)
			texts[speaker] = []string{}
		}
		if text != "" {
			texts[speaker] = append(texts[speaker], text)
		}
	}

	if len(t.Turns) > 0 {
		for _, turn := range t.Turns {
			add(turn.Speaker, turn.Text)
		}
		return order, texts
	}

	if t.RawText != "" {
		return parseRawTranscript(t.RawText)
	}

	return order, texts
}

// parseRawTranscript extracts "[timestamp] Speaker: text" lines from flat
// text, preserving first-seen speaker order.
func parseRawTranscript(raw string) ([]string, map[string][]string) {
	order := []string{}
	texts := map[string][]string{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "---") {
			continue
		}

		speaker, text, ok := splitTurnLine(line)
		if !ok {
			continue
		}

		if _, seen := texts[speaker]; !seen {
			order = append(order, speaker)
		}
		texts[speaker] = append(texts[speaker], text)
	}

	return order, texts
}

// splitTurnLine parses one "[ts] Speaker: text" line.
func splitTurnLine(line string) (speaker, text string, ok bool) {
	closeIdx := strings.Index(line, "]")
	if closeIdx < 0 {
		return "", "", false
	}
	rest := strings.TrimSpace(line[closeIdx+1:])
	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return "", "", false
	}
	speaker = strings.TrimSpace(rest[:colonIdx])
	text = strings.TrimSpace(rest[colonIdx+1:])
	if speaker == "" {
		return "", "", false
	}
	return speaker, text, true
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, strings.Trim(f, ".,!?;:'\"()"))
	}
	return words
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
