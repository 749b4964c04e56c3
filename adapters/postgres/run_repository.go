package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"promptlab/domain/core"
	"promptlab/domain/run"
	"promptlab/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// Save upserts a run by ID. Reports and comparisons land in JSONB columns
// so the schema stays stable as the engine grows.
func (r *RunRepositoryImpl) Save(ctx context.Context, rec run.Run) error {
	optionsJSON, err := json.Marshal(rec.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	reportsJSON, err := json.Marshal(rec.Reports)
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	comparisonsJSON, err := json.Marshal(rec.Comparisons)
	if err != nil {
		return fmt.Errorf("failed to marshal comparisons: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (id, label, fingerprint, options, reports, comparisons, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			label = EXCLUDED.label,
			fingerprint = EXCLUDED.fingerprint,
			options = EXCLUDED.options,
			reports = EXCLUDED.reports,
			comparisons = EXCLUDED.comparisons
	`, rec.ID.String(), rec.Label, rec.Fingerprint.String(),
		optionsJSON, reportsJSON, comparisonsJSON, rec.CreatedAt.Time())

	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepositoryImpl) Get(ctx context.Context, id core.RunID) (*run.Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, label, fingerprint, options, reports, comparisons, created_at
		FROM runs
		WHERE id = $1
	`, id.String())

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, core.NewRunNotFoundError(id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	return rec, nil
}

// List returns up to limit runs, newest first
func (r *RunRepositoryImpl) List(ctx context.Context, limit int) ([]run.Run, error) {
	query := `
		SELECT id, label, fingerprint, options, reports, comparisons, created_at
		FROM runs
		ORDER BY created_at DESC
	`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []run.Run
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *rec)
	}

	return runs, rows.Err()
}

// rowScanner lets scanRun work on both QueryRow and Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*run.Run, error) {
	var (
		id          string
		label       string
		fingerprint string
		optionsJSON []byte
		reportsJSON []byte
		compsJSON   []byte
		createdAt   time.Time
	)

	if err := row.Scan(&id, &label, &fingerprint,
		&optionsJSON, &reportsJSON, &compsJSON, &createdAt); err != nil {
		return nil, err
	}

	rec := run.Run{
		ID:          core.RunID(id),
		Label:       label,
		Fingerprint: core.Fingerprint(fingerprint),
		CreatedAt:   core.NewTimestamp(createdAt),
	}

	if err := json.Unmarshal(optionsJSON, &rec.Options); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	if err := json.Unmarshal(reportsJSON, &rec.Reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	if err := json.Unmarshal(compsJSON, &rec.Comparisons); err != nil {
		return nil, fmt.Errorf("failed to decode comparisons: %w", err)
	}

	return &rec, nil
}
