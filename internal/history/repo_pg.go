package history

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo stores history in Postgres and prunes beyond the cap on insert.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Add(ctx context.Context, rec Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history add: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO history (id, text, result, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Text, []byte(rec.Result), rec.Time,
	)
	if err != nil {
		return fmt.Errorf("history add: insert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC LIMIT $1
		)`, MaxEntries)
	if err != nil {
		return fmt.Errorf("history add: prune: %w", err)
	}
	return tx.Commit()
}

func (r *PGRepo) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, result, created_at FROM history ORDER BY created_at DESC LIMIT $1`,
		MaxEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var result []byte
		if err := rows.Scan(&rec.ID, &rec.Text, &result, &rec.Time); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		rec.Result = result
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PGRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("history clear: %w", err)
	}
	return nil
}
