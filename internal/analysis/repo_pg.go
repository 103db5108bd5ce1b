package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo stores async analysis jobs in Postgres.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	result, err := encodeResult(a.Result)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, text, journal_name, document_id, status, result, error_code, error_message, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.Text, a.JournalName, a.DocumentID, string(a.Status), result,
		nullString(a.ErrorCode), nullString(a.ErrorMessage),
		a.StartedAt, a.CompletedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("analyses create: %w", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, text, journal_name, document_id, status, result, error_code, error_message, started_at, completed_at, created_at, updated_at
		FROM analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrAnalysisNotFound
	}
	return a, err
}

func (r *PGRepo) Update(ctx context.Context, a Analysis) error {
	result, err := encodeResult(a.Result)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE analyses SET status = $2, result = $3, error_code = $4, error_message = $5,
			started_at = $6, completed_at = $7, updated_at = $8
		WHERE id = $1`,
		a.ID, string(a.Status), result,
		nullString(a.ErrorCode), nullString(a.ErrorMessage),
		a.StartedAt, a.CompletedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("analyses update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, journal_name, document_id, status, result, error_code, error_message, started_at, completed_at, created_at, updated_at
		FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("analyses list: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var status string
	var result []byte
	var errorCode, errorMessage sql.NullString
	err := row.Scan(
		&a.ID, &a.Text, &a.JournalName, &a.DocumentID, &status, &result,
		&errorCode, &errorMessage, &a.StartedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	a.Status = Status(status)
	a.ErrorCode = errorCode.String
	a.ErrorMessage = errorMessage.String
	if len(result) > 0 {
		var res Result
		if err := json.Unmarshal(result, &res); err != nil {
			return Analysis{}, fmt.Errorf("analyses decode result: %w", err)
		}
		a.Result = &res
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeResult(res *Result) ([]byte, error) {
	if res == nil {
		return nil, nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("analyses encode result: %w", err)
	}
	return raw, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
