// Package db keeps domain annotations and analysis results in sqlite.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS protein_domains (
	species    TEXT    NOT NULL,
	protein_id TEXT    NOT NULL,
	domain_id  TEXT    NOT NULL,
	dom_from   INTEGER NOT NULL,
	dom_to     INTEGER NOT NULL,
	evalue     REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS protein_domains_species ON protein_domains (species);

CREATE TABLE IF NOT EXISTS analysis_runs (
	run_id           TEXT PRIMARY KEY,
	created_at       TEXT NOT NULL,
	combination_type TEXT NOT NULL,
	strategy         TEXT NOT NULL,
	species          TEXT NOT NULL,
	params           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS distance_matrices (
	run_id     TEXT    NOT NULL REFERENCES analysis_runs (run_id),
	metric     TEXT    NOT NULL,
	resampling INTEGER NOT NULL,
	matrix     TEXT    NOT NULL,
	PRIMARY KEY (run_id, metric, resampling)
);

CREATE TABLE IF NOT EXISTS domain_similarities (
	run_id     TEXT    NOT NULL REFERENCES analysis_runs (run_id),
	ordinal    INTEGER NOT NULL,
	domain_id  TEXT    NOT NULL,
	similarity TEXT    NOT NULL,
	PRIMARY KEY (run_id, ordinal)
);
`

type AnalysisDB struct {
	sql *sql.DB
}

func NewAnalysisDB(db *sql.DB) *AnalysisDB {
	return &AnalysisDB{sql: db}
}

// Open connects to the sqlite file at path and makes sure the schema exists.
func Open(ctx context.Context, path string) (*AnalysisDB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	adb := NewAnalysisDB(conn)
	if err := adb.Init(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return adb, nil
}

func (adb *AnalysisDB) Init(ctx context.Context) error {
	if _, err := adb.sql.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (adb *AnalysisDB) DB() *sql.DB {
	return adb.sql
}

func (adb *AnalysisDB) Close() error {
	return adb.sql.Close()
}
