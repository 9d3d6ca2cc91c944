// Package parser converts uploaded transcript files into flat transcript
// text. Supported formats are WebVTT (Teams exports), Markdown with optional
// YAML frontmatter, and plain text.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFileSize caps uploaded transcript files at 10 MB.
const MaxFileSize = 10 * 1024 * 1024

// Sentinel errors for upload validation; the HTTP layer maps these onto
// API error responses.
var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrEmptyFile       = errors.New("file is empty")
)

// Result is the output of parsing one transcript file.
type Result struct {
	Text          string
	DetectedTitle string
	DetectedDate  string
	Format        string
}

// Teams VTT wraps each cue payload in <v Speaker Name>text</v>.
var voiceTagRe = regexp.MustCompile(`(?s)^<v\s+([^>]+)>(.*?)(?:</v>)?$`)

var frontmatterRe = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n`)

// Parse routes content to the parser for the file's extension.
func Parse(content []byte, filename string) (*Result, error) {
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}
	if len(content) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".vtt":
		return parseVTT(content), nil
	case ".md":
		return parseMarkdown(content), nil
	case ".txt":
		return parseText(content), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
}

// parseVTT normalizes WebVTT cues to "[HH:MM:SS] Speaker: text" lines.
// Consecutive cues from the same speaker are merged into one line.
func parseVTT(content []byte) *Result {
	text := stripBOM(string(content))

	var lines []string
	prevSpeaker := ""

	var cueStart string
	var payload []string

	flush := func() {
		if len(payload) == 0 {
			return
		}
		raw := strings.TrimSpace(strings.Join(payload, " "))
		payload = nil
		if raw == "" {
			return
		}

		speaker := ""
		cueText := raw
		if m := voiceTagRe.FindStringSubmatch(raw); m != nil {
			speaker = strings.TrimSpace(m[1])
			cueText = strings.TrimSpace(m[2])
		}
		if cueText == "" {
			return
		}

		switch {
		case speaker != "" && speaker == prevSpeaker && len(lines) > 0:
			lines[len(lines)-1] += " " + cueText
		case speaker != "":
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", cueStart, speaker, cueText))
			prevSpeaker = speaker
		default:
			lines = append(lines, fmt.Sprintf("[%s] %s", cueStart, cueText))
			prevSpeaker = ""
		}
	}

	inNote := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "WEBVTT"):
			continue
		case strings.HasPrefix(trimmed, "NOTE") || strings.HasPrefix(trimmed, "STYLE"):
			inNote = true
			continue
		case trimmed == "":
			flush()
			inNote = false
			continue
		case inNote:
			continue
		case strings.Contains(trimmed, "-->"):
			flush()
			start := strings.TrimSpace(strings.SplitN(trimmed, "-->", 2)[0])
			// Drop the millisecond suffix: "00:01:23.456" -> "00:01:23".
			if dot := strings.Index(start, "."); dot >= 0 {
				start = start[:dot]
			}
			cueStart = start
			continue
		case cueStart == "":
			// Cue identifier or header metadata before any timestamp.
			continue
		default:
			payload = append(payload, trimmed)
		}
	}
	flush()

	return &Result{Text: strings.Join(lines, "\n"), Format: "vtt"}
}

// parseMarkdown extracts YAML frontmatter title and date when present and
// returns the body text.
func parseMarkdown(content []byte) *Result {
	text := strings.TrimSpace(stripBOM(string(content)))

	res := &Result{Format: "md"}
	if m := frontmatterRe.FindStringSubmatch(text); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			lower := strings.ToLower(line)
			switch {
			case strings.HasPrefix(lower, "title:"):
				res.DetectedTitle = trimFMValue(line)
			case strings.HasPrefix(lower, "date:"):
				res.DetectedDate = trimFMValue(line)
			}
		}
		text = text[len(m[0]):]
	}

	res.Text = strings.TrimSpace(text)
	return res
}

func parseText(content []byte) *Result {
	return &Result{
		Text:   strings.TrimSpace(stripBOM(string(content))),
		Format: "txt",
	}
}

func trimFMValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.Trim(strings.TrimSpace(value), `"'`)
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
