package analysis

import "time"

// Status of an asynchronously submitted analysis.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Analysis is an async analysis job and, once completed, its result.
type Analysis struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	JournalName  string     `json:"journal_name,omitempty"`
	DocumentID   *string    `json:"document_id,omitempty"`
	Status       Status     `json:"status"`
	Result       *Result    `json:"result,omitempty"`
	ErrorCode    string     `json:"error_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
