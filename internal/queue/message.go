package queue

import "time"

// MessageVersion guards against schema drift between producer and worker.
const MessageVersion = 1

// Message is the payload dispatched to the analysis worker.
type Message struct {
	AnalysisID string    `json:"analysis_id"`
	RequestID  string    `json:"request_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Version    int       `json:"version"`
}
