package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"paragraph-backend/internal/extract"
	"paragraph-backend/internal/shared/storage/object"
	"paragraph-backend/internal/shared/telemetry"
)

const (
	storageScope = "documents"

	// MaxUploadBytes caps a single uploaded file.
	MaxUploadBytes = 20 << 20
)

// ErrUnsupportedType is returned for uploads that cannot be extracted.
var ErrUnsupportedType = errors.New("unsupported document type")

// ErrTooLarge is returned when an upload exceeds MaxUploadBytes.
var ErrTooLarge = errors.New("document too large")

// Service owns document upload, text extraction, and retrieval.
type Service struct {
	repo  Repo
	store object.Store
}

func NewService(repo Repo, store object.Store) (*Service, error) {
	if repo == nil {
		return nil, errors.New("documents: repo is required")
	}
	if store == nil {
		return nil, errors.New("documents: object store is required")
	}
	return &Service{repo: repo, store: store}, nil
}

// Upload stores the raw file, extracts its text, stores the text as a
// companion blob, and records the metadata row.
func (s *Service) Upload(ctx context.Context, fileName, mimeType string, r io.Reader) (Document, error) {
	if !extract.Supported(mimeType) {
		return Document{}, ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Document{}, ErrTooLarge
	}

	text, err := extract.Text(mimeType, data)
	if err != nil {
		return Document{}, fmt.Errorf("extract text: %w", err)
	}

	storageKey, err := s.store.Save(ctx, storageScope, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}

	textKey, err := s.store.Save(ctx, storageScope, fileName+".txt", strings.NewReader(text))
	if err != nil {
		// roll back the raw blob so we never keep a document without text
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("documents.orphan_blob", map[string]any{"key": storageKey, "error": delErr.Error()})
		}
		return Document{}, fmt.Errorf("store extracted text: %w", err)
	}

	now := time.Now().UTC()
	doc := Document{
		ID:               uuid.NewString(),
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        int64(len(data)),
		StorageKey:       storageKey,
		ExtractedTextKey: textKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// GetText returns the extracted text of a document.
func (s *Service) GetText(ctx context.Context, id string) (string, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	rc, err := s.store.Open(ctx, doc.ExtractedTextKey)
	if err != nil {
		return "", fmt.Errorf("open extracted text: %w", err)
	}
	defer rc.Close()
	text, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return string(text), nil
}

// Delete removes the metadata row and both stored blobs. Blob deletion
// failures are logged, not surfaced.
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	for _, key := range []string{doc.StorageKey, doc.ExtractedTextKey} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			telemetry.Warn("documents.blob_delete_failed", map[string]any{"key": key, "error": err.Error()})
		}
	}
	return nil
}
