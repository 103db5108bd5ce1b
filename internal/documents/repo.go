package documents

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document id is unknown.
var ErrNotFound = errors.New("document not found")

// Repo persists document metadata; the blobs live in object storage.
type Repo interface {
	Create(ctx context.Context, d Document) error
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id string) error
}
