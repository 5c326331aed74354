package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	model            TEXT NOT NULL,
	medium           TEXT NOT NULL,
	kinetic_energy   REAL NOT NULL,
	events           INTEGER NOT NULL,
	seed             INTEGER NOT NULL,
	cross_section    REAL NOT NULL,
	mean_free_path   REAL,
	mean_draws       REAL,
	energy_residual  REAL NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_name ON runs (name);
`

// Record is a stored run summary in internal units (MeV, cm).
type Record struct {
	ID             string
	Name           string
	Model          string
	Medium         string
	KineticEnergy  float64
	Events         int
	Seed           int64
	CrossSection   float64
	MeanFreePath   float64 // +Inf is stored as NULL
	MeanDraws      float64
	EnergyResidual float64
	CreatedAt      time.Time
}

type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRun stores the record under a fresh id, which is returned.
func (s *Store) PutRun(ctx context.Context, r Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(r.Name) == "" {
		return "", fmt.Errorf("run name is required")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	id := uuid.NewString()

	var meanFreePath sql.NullFloat64
	if !math.IsInf(r.MeanFreePath, 0) {
		meanFreePath = sql.NullFloat64{Float64: r.MeanFreePath, Valid: true}
	}
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO runs (id, name, model, medium, kinetic_energy, events, seed,
			cross_section, mean_free_path, mean_draws, energy_residual, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Name, r.Model, r.Medium, r.KineticEnergy, r.Events, r.Seed,
		r.CrossSection, meanFreePath, nullable(r.MeanDraws), r.EnergyResidual, r.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", r.Name, err)
	}
	return id, nil
}

// Runs lists the stored records of a run name, oldest first.
func (s *Store) Runs(ctx context.Context, name string) ([]Record, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, name, model, medium, kinetic_energy, events, seed,
			cross_section, mean_free_path, mean_draws, energy_residual, created_at
		FROM runs WHERE name = ? ORDER BY created_at, id`, name)
	if err != nil {
		return nil, fmt.Errorf("query runs %s: %w", name, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r            Record
			meanFreePath sql.NullFloat64
			meanDraws    sql.NullFloat64
			createdAt    string
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Model, &r.Medium, &r.KineticEnergy, &r.Events, &r.Seed,
			&r.CrossSection, &meanFreePath, &meanDraws, &r.EnergyResidual, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.MeanFreePath = math.Inf(1)
		if meanFreePath.Valid {
			r.MeanFreePath = meanFreePath.Float64
		}
		r.MeanDraws = meanDraws.Float64
		if r.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// nullable maps NaN, which SQLite cannot hold, to NULL.
func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}
