package journals

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo stores journal profiles in Postgres with jsonb columns for the
// generated prompt set and list fields.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const profileColumns = `name, full_name, aims_scope, custom_methodology, prompts, keywords, audience, style, criteria`

func (r *PGRepo) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM journals ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("journals list: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Get(ctx context.Context, name string) (Profile, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM journals WHERE name = $1`, name)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, false, nil
	}
	if err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

func (r *PGRepo) Save(ctx context.Context, p Profile) error {
	prompts, keywords, criteria, err := encodeJSONFields(p)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO journals (name, full_name, aims_scope, custom_methodology, prompts, keywords, audience, style, criteria, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (name) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			aims_scope = EXCLUDED.aims_scope,
			custom_methodology = EXCLUDED.custom_methodology,
			prompts = EXCLUDED.prompts,
			keywords = EXCLUDED.keywords,
			audience = EXCLUDED.audience,
			style = EXCLUDED.style,
			criteria = EXCLUDED.criteria,
			updated_at = now()`,
		p.Name, p.FullName, p.AimsScope, p.CustomMethodology,
		prompts, keywords, p.Audience, p.Style, criteria,
	)
	if err != nil {
		return fmt.Errorf("journals save %s: %w", p.Name, err)
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM journals WHERE name = $1`, name); err != nil {
		return fmt.Errorf("journals delete %s: %w", name, err)
	}
	return nil
}

func (r *PGRepo) ReplaceAll(ctx context.Context, profiles []Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journals replace: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM journals`); err != nil {
		return fmt.Errorf("journals replace: clear: %w", err)
	}
	for _, p := range profiles {
		prompts, keywords, criteria, err := encodeJSONFields(p)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO journals (name, full_name, aims_scope, custom_methodology, prompts, keywords, audience, style, criteria)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.Name, p.FullName, p.AimsScope, p.CustomMethodology,
			prompts, keywords, p.Audience, p.Style, criteria,
		)
		if err != nil {
			return fmt.Errorf("journals replace: insert %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var prompts, keywords, criteria []byte
	err := row.Scan(
		&p.Name, &p.FullName, &p.AimsScope, &p.CustomMethodology,
		&prompts, &keywords, &p.Audience, &p.Style, &criteria,
	)
	if err != nil {
		return Profile{}, err
	}
	if err := json.Unmarshal(prompts, &p.Prompts); err != nil {
		return Profile{}, fmt.Errorf("journals decode prompts: %w", err)
	}
	if err := json.Unmarshal(keywords, &p.Keywords); err != nil {
		return Profile{}, fmt.Errorf("journals decode keywords: %w", err)
	}
	if err := json.Unmarshal(criteria, &p.Criteria); err != nil {
		return Profile{}, fmt.Errorf("journals decode criteria: %w", err)
	}
	return p, nil
}

func encodeJSONFields(p Profile) (prompts, keywords, criteria []byte, err error) {
	if p.Prompts == nil {
		p.Prompts = map[string]string{}
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.Criteria == nil {
		p.Criteria = []string{}
	}
	if prompts, err = json.Marshal(p.Prompts); err != nil {
		return nil, nil, nil, fmt.Errorf("journals encode prompts: %w", err)
	}
	if keywords, err = json.Marshal(p.Keywords); err != nil {
		return nil, nil, nil, fmt.Errorf("journals encode keywords: %w", err)
	}
	if criteria, err = json.Marshal(p.Criteria); err != nil {
		return nil, nil, nil, fmt.Errorf("journals encode criteria: %w", err)
	}
	return prompts, keywords, criteria, nil
}
