package meeting

import "time"

// ProcessRequest is the JSON body for POST /api/v1/meetings/process.
type ProcessRequest struct {
	MeetingID  string     `json:"meeting_id,omitempty"`
	Title      string     `json:"title" validate:"required,max=500"`
	Date       *time.Time `json:"date,omitempty"`
	Tier       string     `json:"tier" validate:"omitempty,oneof=ordinary sensitive"`
	Transcript string     `json:"transcript" validate:"required,min=10"`
}

// SearchRequest carries the query parameters of GET /api/v1/meetings/search.
type SearchRequest struct {
	Query string `query:"q" validate:"required,min=1"`
	Tier  string `query:"tier" validate:"omitempty,oneof=ordinary sensitive"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

// TierRequest carries the tier query parameter shared by the CRUD endpoints.
type TierRequest struct {
	Tier string `query:"tier" validate:"omitempty,oneof=ordinary sensitive"`
}
