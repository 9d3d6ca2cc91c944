// Package redaction detects and anonymizes PII in transcript text using
// regex analyzers. Detected spans are replaced with <ENTITY_TYPE>
// placeholders. Person detection is heuristic (capitalized name pairs and
// honorifics) and documented as best-effort.
package redaction

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/ports"
)

// Entity type labels.
const (
	EntityEmail      = "EMAIL_ADDRESS"
	EntityPhone      = "PHONE_NUMBER"
	EntitySSN        = "US_SSN"
	EntityCreditCard = "CREDIT_CARD"
	EntityIBAN       = "IBAN_CODE"
	EntityPerson     = "PERSON"
)

type analyzer struct {
	entityType string
	re         *regexp.Regexp
	score      float64
}

// Pattern order matters: structured identifiers are matched before the
// looser person heuristic so overlap resolution keeps the stronger label.
var analyzers = []analyzer{
	{EntityEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`), 1.0},
	{EntitySSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), 0.9},
	{EntityIBAN, regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`), 0.8},
	{EntityCreditCard, regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`), 0.7},
	{EntityPhone, regexp.MustCompile(`\b(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`), 0.7},
	{EntityPerson, regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Dr)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`), 0.6},
	{EntityPerson, regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`), 0.4},
}

// speakerLineRe matches a redacted speaker prefix: "[ts] <PERSON>:".
var speakerLineRe = regexp.MustCompile(`\[([\d:]+)\] <PERSON>:`)

type span struct {
	entityType string
	start, end int
	score      float64
}

// Redactor anonymizes PII spans in text.
type Redactor struct{}

// NewRedactor creates a Redactor.
func NewRedactor() *Redactor {
	return &Redactor{}
}

// RedactTranscript redacts PII from a transcript. When no entities are found
// the original text is returned unchanged with a zero count; the replacement
// pass is skipped entirely, so calling it on already-redacted text is safe.
// preserveSpeakers restores "<PERSON>" placeholders that follow a timestamp
// marker back to a preserved speaker's name. Best effort only.
func (r *Redactor) RedactTranscript(_ context.Context, text string, preserveSpeakers []string) (*ports.RedactionResult, error) {
	spans := analyze(text)

	entities := make([]ports.RedactedEntity, 0, len(spans))
	for _, s := range spans {
		entities = append(entities, ports.RedactedEntity{
			Type:  s.entityType,
			Start: s.start,
			End:   s.end,
			Score: s.score,
		})
	}

	redacted := text
	if len(spans) > 0 {
		redacted = anonymize(text, spans)
	}

	if len(preserveSpeakers) > 0 {
		redacted = restoreSpeakers(redacted, text, preserveSpeakers)
	}

	return &ports.RedactionResult{
		RedactedText:   redacted,
		EntitiesFound:  entities,
		RedactionCount: len(spans),
	}, nil
}

// analyze collects non-overlapping PII spans, earliest-start first. On
// overlap the span found by the earlier (stronger) analyzer wins.
func analyze(text string) []span {
	var found []span
	for _, a := range analyzers {
		for _, loc := range a.re.FindAllStringIndex(text, -1) {
			candidate := span{a.entityType, loc[0], loc[1], a.score}
			if !overlapsAny(found, candidate) {
				found = append(found, candidate)
			}
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })
	return found
}

func overlapsAny(spans []span, c span) bool {
	for _, s := range spans {
		if c.start < s.end && s.start < c.end {
			return true
		}
	}
	return false
}

// anonymize streams the text front-to-back, copying the gaps between spans
// and writing a placeholder for each span. Spans must be sorted by start and
// non-overlapping.
func anonymize(text string, spans []span) string {
	var b strings.Builder
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		b.WriteString(fmt.Sprintf("<%s>", s.entityType))
		last = s.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// restoreSpeakers rewrites "[ts] <PERSON>:" prefixes to a preserved
// speaker's literal name. When the detector collapsed several PERSON spans
// the repair is ambiguous; the first preserved speaker present in the
// original text wins.
func restoreSpeakers(redacted, original string, speakers []string) string {
	for _, speaker := range speakers {
		if !strings.Contains(original, speaker) {
			continue
		}
		redacted = speakerLineRe.ReplaceAllString(redacted, fmt.Sprintf("[$1] %s:", speaker))
	}
	return redacted
}
