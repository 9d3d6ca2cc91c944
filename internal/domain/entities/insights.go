package entities

// Decision is an extracted decision from the meeting. Confidence lies in
// [0,1]; it is exposed to consumers but not used structurally.
type Decision struct {
	Topic      string   `json:"topic"`
	Decision   string   `json:"decision"`
	Deciders   []string `json:"deciders,omitempty"`
	Confidence float64  `json:"confidence"`
}

// ActionItem is a task assigned during the meeting.
type ActionItem struct {
	Task     string `json:"task"`
	Owner    string `json:"owner"`
	Deadline string `json:"deadline,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Topic is a key topic discussed in the meeting. Importance is one of
// high/medium/low.
type Topic struct {
	Name            string   `json:"name"`
	Importance      string   `json:"importance"`
	RelatedSpeakers []string `json:"related_speakers,omitempty"`
}

// OpenQuestion is an unresolved question raised in the meeting.
type OpenQuestion struct {
	Question     string   `json:"question"`
	Context      string   `json:"context,omitempty"`
	Stakeholders []string `json:"stakeholders,omitempty"`
}

// Insights is the structured output of the extraction port. MeetingTitle and
// MeetingDate are always stamped by the orchestrator from the transcript,
// overriding whatever the port returned.
type Insights struct {
	MeetingTitle  string         `json:"meeting_title"`
	MeetingDate   string         `json:"meeting_date,omitempty"`
	Summary       string         `json:"summary"`
	Decisions     []Decision     `json:"decisions"`
	ActionItems   []ActionItem   `json:"action_items"`
	KeyTopics     []Topic        `json:"key_topics"`
	OpenQuestions []OpenQuestion `json:"open_questions"`
}

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentResult is the per-speaker sentiment score. Exactly one result
// exists per distinct speaker name observed in the transcript.
type SentimentResult struct {
	Speaker          string   `json:"speaker"`
	OverallSentiment string   `json:"overall_sentiment"`
	Confidence       float64  `json:"confidence"`
	KeyPhrases       []string `json:"key_phrases"`
}
