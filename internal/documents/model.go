package documents

import "time"

// Document is an uploaded manuscript with its extracted-text artifact.
type Document struct {
	ID               string    `json:"id"`
	FileName         string    `json:"file_name"`
	MimeType         string    `json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	StorageKey       string    `json:"-"`
	ExtractedTextKey string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
