package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func vttFile(cues string) []byte {
	return []byte("WEBVTT\n\n" + cues)
}

func TestVTTWithSpeakerTags(t *testing.T) {
	content := vttFile(
		"00:00:01.000 --> 00:00:05.000\n<v Alice Nguyen>Good morning everyone</v>\n\n" +
			"00:00:06.000 --> 00:00:09.000\n<v Bob Tran>Morning, let us start</v>\n",
	)

	res, err := Parse(content, "meeting.vtt")
	require.NoError(t, err)
	require.Equal(t, "vtt", res.Format)

	lines := strings.Split(res.Text, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "[00:00:01] Alice Nguyen: Good morning everyone", lines[0])
	require.Equal(t, "[00:00:06] Bob Tran: Morning, let us start", lines[1])
}

func TestVTTMergesConsecutiveSpeakerCues(t *testing.T) {
	content := vttFile(
		"00:00:01.000 --> 00:00:03.000\n<v Alice>First part</v>\n\n" +
			"00:00:03.500 --> 00:00:06.000\n<v Alice>second part</v>\n\n" +
			"00:00:07.000 --> 00:00:09.000\n<v Bob>Reply</v>\n",
	)

	res, err := Parse(content, "meeting.vtt")
	require.NoError(t, err)

	lines := strings.Split(res.Text, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "[00:00:01] Alice: First part second part", lines[0])
	require.Equal(t, "[00:00:07] Bob: Reply", lines[1])
}

func TestVTTWithoutSpeakerTags(t *testing.T) {
	content := vttFile("00:00:01.000 --> 00:00:05.000\nPlain caption text\n")

	res, err := Parse(content, "meeting.vtt")
	require.NoError(t, err)
	require.Equal(t, "[00:00:01] Plain caption text", res.Text)
}

func TestVTTWithBOMAndCueIdentifiers(t *testing.T) {
	content := []byte("\xEF\xBB\xBFWEBVTT\n\n1\n00:00:01.000 --> 00:00:05.000\n<v Alice>Hello</v>\n")

	res, err := Parse(content, "meeting.vtt")
	require.NoError(t, err)
	require.Equal(t, "[00:00:01] Alice: Hello", res.Text)
}

func TestMarkdownFrontmatter(t *testing.T) {
	content := []byte("---\ntitle: \"Q3 Planning\"\ndate: 2026-07-01\n---\n\n[00:00] Alice: kickoff\n")

	res, err := Parse(content, "notes.md")
	require.NoError(t, err)
	require.Equal(t, "md", res.Format)
	require.Equal(t, "Q3 Planning", res.DetectedTitle)
	require.Equal(t, "2026-07-01", res.DetectedDate)
	require.Equal(t, "[00:00] Alice: kickoff", res.Text)
}

func TestMarkdownWithoutFrontmatter(t *testing.T) {
	res, err := Parse([]byte("just a body\n"), "notes.md")
	require.NoError(t, err)
	require.Empty(t, res.DetectedTitle)
	require.Equal(t, "just a body", res.Text)
}

func TestPlainText(t *testing.T) {
	res, err := Parse([]byte("[00:00] Alice: hello\n"), "meeting.txt")
	require.NoError(t, err)
	require.Equal(t, "txt", res.Format)
	require.Equal(t, "[00:00] Alice: hello", res.Text)
}

func TestUnsupportedExtensionsRejected(t *testing.T) {
	for _, name := range []string{"meeting.docx", "meeting.doc", "meeting.pdf", "meeting.mp3"} {
		_, err := Parse([]byte("content"), name)
		require.ErrorIs(t, err, ErrUnsupportedType, name)
	}
}

func TestEmptyAndOversizeFilesRejected(t *testing.T) {
	_, err := Parse(nil, "meeting.vtt")
	require.ErrorIs(t, err, ErrEmptyFile)

	big := make([]byte, MaxFileSize+1)
	_, err = Parse(big, "meeting.txt")
	require.ErrorIs(t, err, ErrFileTooLarge)
}
