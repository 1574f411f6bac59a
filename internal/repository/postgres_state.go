package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"mindcare/internal/records"
)

const clinicStatesDDL = `
CREATE TABLE IF NOT EXISTS clinic_states (
	owner_email TEXT PRIMARY KEY,
	state       JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStateRepository stores one JSONB row per practitioner.
type PostgresStateRepository struct {
	db *sql.DB
}

var _ StateRepository = (*PostgresStateRepository)(nil)

func NewPostgresStateRepository(db *sql.DB) *PostgresStateRepository {
	return &PostgresStateRepository{db: db}
}

// EnsureSchema creates clinic_states if it does not exist.
func (r *PostgresStateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, clinicStatesDDL); err != nil {
		return fmt.Errorf("failed to create clinic_states: %w", err)
	}
	return nil
}

func (r *PostgresStateRepository) Load(ctx context.Context, owner string) (records.State, bool, error) {
	owner = normalizeOwner(owner)
	if owner == "" {
		return records.State{}, false, fmt.Errorf("owner is required")
	}

	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM clinic_states WHERE owner_email = $1`,
		owner,
	).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return records.State{}, false, nil
		}
		return records.State{}, false, fmt.Errorf("failed to load clinic state: %w", err)
	}

	var st records.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return records.State{}, false, fmt.Errorf("failed to decode clinic state: %w", err)
	}
	return st, true, nil
}

func (r *PostgresStateRepository) Save(ctx context.Context, owner string, st records.State) error {
	owner = normalizeOwner(owner)
	if owner == "" {
		return fmt.Errorf("owner is required")
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode clinic state: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO clinic_states (owner_email, state, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (owner_email)
		DO UPDATE SET state = EXCLUDED.state,
		              updated_at = NOW()`,
		owner, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to save clinic state: %w", err)
	}
	return nil
}

func normalizeOwner(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
