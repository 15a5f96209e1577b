// internal/repository/postgres/schema.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pathfinder-workers/internal/models"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS test_scores (
		test_id      TEXT PRIMARY KEY,
		quantitative INTEGER NOT NULL CHECK (quantitative BETWEEN 0 AND 100),
		verbal       INTEGER NOT NULL CHECK (verbal BETWEEN 0 AND 100),
		logical      INTEGER NOT NULL CHECK (logical BETWEEN 0 AND 100)
	)`,
	`CREATE TABLE IF NOT EXISTS programs (
		id          INTEGER PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT,
		req_quant   DOUBLE PRECISION NOT NULL CHECK (req_quant BETWEEN 0 AND 1),
		req_verbal  DOUBLE PRECISION NOT NULL CHECK (req_verbal BETWEEN 0 AND 1),
		req_logical DOUBLE PRECISION NOT NULL CHECK (req_logical BETWEEN 0 AND 1)
	)`,
}

const (
	upsertScoreQuery = `INSERT INTO test_scores (test_id, quantitative, verbal, logical)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (test_id) DO UPDATE SET quantitative = EXCLUDED.quantitative,
			verbal = EXCLUDED.verbal, logical = EXCLUDED.logical`

	upsertProgramQuery = `INSERT INTO programs (id, name, description, req_quant, req_verbal, req_logical)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
			req_quant = EXCLUDED.req_quant, req_verbal = EXCLUDED.req_verbal, req_logical = EXCLUDED.req_logical`
)

// SeedScores are the sample aptitude results shipped with the service.
var SeedScores = []models.TestScore{
	{TestID: "TEST001", Quantitative: 85, Verbal: 70, Logical: 80},
	{TestID: "TEST002", Quantitative: 60, Verbal: 90, Logical: 75},
	{TestID: "TEST003", Quantitative: 95, Verbal: 50, Logical: 90},
	{TestID: "TEST004", Quantitative: 40, Verbal: 85, Logical: 60},
	{TestID: "TEST005", Quantitative: 75, Verbal: 80, Logical: 70},
	{TestID: "FAIL001", Quantitative: 40, Verbal: 30, Logical: 35},
}

// SeedPrograms is the default catalog.
var SeedPrograms = []models.Program{
	{ID: 1, Name: "BSIT", Description: "Tech-focused, high quant/logical.", ReqQuant: 0.8, ReqVerbal: 0.4, ReqLogical: 0.7},
	{ID: 2, Name: "BSEE", Description: "Engineering, quant-heavy.", ReqQuant: 0.9, ReqVerbal: 0.3, ReqLogical: 0.6},
	{ID: 3, Name: "BSOA", Description: "Admin, verbal-focused.", ReqQuant: 0.4, ReqVerbal: 0.7, ReqLogical: 0.3},
	{ID: 4, Name: "BSBA", Description: "Business, balanced verbal.", ReqQuant: 0.5, ReqVerbal: 0.8, ReqLogical: 0.4},
	{ID: 5, Name: "BSCE", Description: "Civil Eng, logical/quant.", ReqQuant: 0.7, ReqVerbal: 0.2, ReqLogical: 0.9},
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Seed upserts the given scores and programs in one transaction.
func Seed(ctx context.Context, db *sql.DB, scores []models.TestScore, programs []models.Program) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range scores {
		if _, err := tx.ExecContext(ctx, upsertScoreQuery, s.TestID, s.Quantitative, s.Verbal, s.Logical); err != nil {
			return fmt.Errorf("seed test score %s: %w", s.TestID, err)
		}
	}
	for _, p := range programs {
		if _, err := tx.ExecContext(ctx, upsertProgramQuery, p.ID, p.Name, p.Description, p.ReqQuant, p.ReqVerbal, p.ReqLogical); err != nil {
			return fmt.Errorf("seed program %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}
