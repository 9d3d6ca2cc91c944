package redaction

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedactsEmailAndPhone(t *testing.T) {
	r := NewRedactor()

	text := "reach me at alice@example.com or 555-123-4567 tomorrow"
	res, err := r.RedactTranscript(context.Background(), text, nil)
	require.NoError(t, err)

	require.Equal(t, 2, res.RedactionCount)
	require.Contains(t, res.RedactedText, "<EMAIL_ADDRESS>")
	require.Contains(t, res.RedactedText, "<PHONE_NUMBER>")
	require.NotContains(t, res.RedactedText, "alice@example.com")
	require.NotContains(t, res.RedactedText, "555-123-4567")
}

func TestSSNWinsOverPhone(t *testing.T) {
	r := NewRedactor()

	res, err := r.RedactTranscript(context.Background(), "ssn is 123-45-6789 on file", nil)
	require.NoError(t, err)

	require.Equal(t, 1, res.RedactionCount)
	require.Equal(t, EntitySSN, res.EntitiesFound[0].Type)
	require.Contains(t, res.RedactedText, "<US_SSN>")
}

func TestNoEntitiesIsNoOp(t *testing.T) {
	r := NewRedactor()

	text := "the deployment finished without incident"
	res, err := r.RedactTranscript(context.Background(), text, nil)
	require.NoError(t, err)

	require.Zero(t, res.RedactionCount)
	require.Equal(t, text, res.RedactedText)
	require.Empty(t, res.EntitiesFound)
}

func TestRedactionIsIdempotent(t *testing.T) {
	r := NewRedactor()

	first, err := r.RedactTranscript(context.Background(), "email bob@corp.io please", nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.RedactionCount)

	second, err := r.RedactTranscript(context.Background(), first.RedactedText, nil)
	require.NoError(t, err)
	require.Zero(t, second.RedactionCount)
	require.Equal(t, first.RedactedText, second.RedactedText)
}

func TestPersonNameDetected(t *testing.T) {
	r := NewRedactor()

	res, err := r.RedactTranscript(context.Background(), "the contract goes to John Smith next week", nil)
	require.NoError(t, err)

	require.Equal(t, 1, res.RedactionCount)
	require.Equal(t, EntityPerson, res.EntitiesFound[0].Type)
	require.Contains(t, res.RedactedText, "<PERSON>")
}

func TestPreserveSpeakersRepairsTurnPrefixes(t *testing.T) {
	r := NewRedactor()

	original := "[00:12] John Smith: my email is john@corp.com\n" +
		"[00:30] John Smith: call me at 555-123-4567"

	res, err := r.RedactTranscript(context.Background(), original, []string{"John Smith"})
	require.NoError(t, err)

	lines := strings.Split(res.RedactedText, "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "[00:12] John Smith:"))
	require.True(t, strings.HasPrefix(lines[1], "[00:30] John Smith:"))
	require.Contains(t, res.RedactedText, "<EMAIL_ADDRESS>")
	require.Contains(t, res.RedactedText, "<PHONE_NUMBER>")
	require.NotContains(t, res.RedactedText, "<PERSON>")
}

func TestEntityOffsetsReferenceOriginalText(t *testing.T) {
	r := NewRedactor()

	text := "ping carol@corp.io now"
	res, err := r.RedactTranscript(context.Background(), text, nil)
	require.NoError(t, err)
	require.Len(t, res.EntitiesFound, 1)

	e := res.EntitiesFound[0]
	require.Equal(t, "carol@corp.io", text[e.Start:e.End])
}
