package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo stores document metadata in Postgres.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const documentColumns = `id, file_name, mime_type, size_bytes, storage_key, extracted_text_key, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, d Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, file_name, mime_type, size_bytes, storage_key, extracted_text_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.FileName, d.MimeType, d.SizeBytes, d.StorageKey, d.ExtractedTextKey, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("documents create: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	var d Document
	err := row.Scan(&d.ID, &d.FileName, &d.MimeType, &d.SizeBytes, &d.StorageKey, &d.ExtractedTextKey, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("documents get: %w", err)
	}
	return d, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("documents list: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.FileName, &d.MimeType, &d.SizeBytes, &d.StorageKey, &d.ExtractedTextKey, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("documents scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("documents delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
