// Package db provides PostgreSQL access for run bookkeeping and the POS sales source.
package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL applied by EnsureSchema.
func Schema() string {
	return schemaSQL
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables this package reads and writes if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// =============================================================================
// Runs
// =============================================================================

// CreateRun records the start of a generator run and returns its ID
func (db *DB) CreateRun(ctx context.Context, input RunInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO fixture_runs (vat_number, primary_id, source, output_dir, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		input.VATNumber, input.PrimaryID, input.Source, input.OutputDir, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run as finished with the given status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE fixture_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil if not found.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, vat_number, primary_id, source, output_dir, status, created_at, completed_at
		 FROM fixture_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.VATNumber, &run.PrimaryID, &run.Source, &run.OutputDir,
		&run.Status, &run.CreatedAt, &run.CompletedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// =============================================================================
// Variants
// =============================================================================

// SaveVariant stores or replaces the outcome of one encoding variant
func (db *DB) SaveVariant(ctx context.Context, runID uuid.UUID, v VariantOutput) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO fixture_variants (run_id, name, encoding, status, ini_path, data_path, archive_path, records, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (run_id, name) DO UPDATE SET
		   encoding = $3, status = $4, ini_path = $5, data_path = $6,
		   archive_path = $7, records = $8, error_message = $9, created_at = NOW()`,
		runID, v.Name, v.Encoding, v.Status, v.INIPath, v.DataPath, v.ArchivePath, v.Records, v.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save variant %s: %w", v.Name, err)
	}
	return nil
}

// ListVariants returns the variants recorded for a run, ordered by name
func (db *DB) ListVariants(ctx context.Context, runID uuid.UUID) ([]VariantOutput, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT name, encoding, status, ini_path, data_path, archive_path, records, error_message
		 FROM fixture_variants WHERE run_id = $1 ORDER BY name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	defer rows.Close()

	var variants []VariantOutput
	for rows.Next() {
		var v VariantOutput
		if err := rows.Scan(&v.Name, &v.Encoding, &v.Status, &v.INIPath, &v.DataPath,
			&v.ArchivePath, &v.Records, &v.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// RunStatusFor derives a run's final status from the number of variants that failed.
func RunStatusFor(total, failed int) string {
	switch {
	case failed == 0:
		return RunStatusCompleted
	case failed < total:
		return RunStatusPartial
	default:
		return RunStatusFailed
	}
}
