package entities

import "time"

// Audit step names, in pipeline execution order.
const (
	AuditStepClassification = "classification"
	AuditStepRedaction      = "redaction"
	AuditStepExtraction     = "extraction"
	AuditStepSentiment      = "sentiment"
	AuditStepStorage        = "storage"
)

// AuditEntry is an open record describing one pipeline step. Steps carry
// different payloads, so only "step" and "timestamp" are mandatory.
type AuditEntry map[string]interface{}

// NewAuditEntry builds an audit entry with the mandatory step and timestamp
// fields plus any step-specific payload.
func NewAuditEntry(step string, fields map[string]interface{}) AuditEntry {
	entry := AuditEntry{
		"step":      step,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		entry[k] = v
	}
	return entry
}

// Step returns the step discriminant, or "" when absent.
func (e AuditEntry) Step() string {
	s, _ := e["step"].(string)
	return s
}

// ProcessedMeeting is the aggregate persisted after a full pipeline run.
// VectorID and ProcessedAt are assigned during storage.
type ProcessedMeeting struct {
	MeetingID   string            `json:"meeting_id"`
	Tier        Tier              `json:"tier"`
	Insights    Insights          `json:"insights"`
	Sentiments  []SentimentResult `json:"sentiments"`
	VectorID    string            `json:"vector_id,omitempty"`
	ProcessedAt time.Time         `json:"processed_at"`
	AuditLog    []AuditEntry      `json:"audit_log"`
}
