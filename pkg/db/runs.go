package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yumyai/domcomb/pkg/distance"
	"github.com/yumyai/domcomb/pkg/model"
	"github.com/yumyai/domcomb/pkg/similarity"
)

var (
	ErrRunNotFound    = errors.New("analysis run not found")
	ErrMatrixNotFound = errors.New("distance matrix not found")
)

// Parameters an analysis run was made with.
type RunParams struct {
	IgnoreSelfCombinations          bool    `json:"ignore_self_combinations"`
	IgnoreDomainsWithNoCombinations bool    `json:"ignore_domains_with_no_combinations"`
	IgnoreDomainsPrivateToOneGenome bool    `json:"ignore_domains_private_to_one_genome"`
	Resamplings                     int     `json:"resamplings"`
	Ratio                           float64 `json:"ratio"`
	Seed                            uint64  `json:"seed"`
}

// Fixed width so that created_at sorts as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Run struct {
	ID              string          `json:"run_id"`
	CreatedAt       time.Time       `json:"created_at"`
	CombinationType string          `json:"combination_type"`
	Strategy        string          `json:"strategy"`
	Species         []model.Species `json:"species"`
	Params          RunParams       `json:"params"`
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// CreateRun stores run under a fresh id, which is also set on run.
func (adb *AnalysisDB) CreateRun(ctx context.Context, run *Run) (string, error) {
	return insertRun(ctx, adb.sql, run)
}

func insertRun(ctx context.Context, q execer, run *Run) (string, error) {
	run.ID = uuid.NewString()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	species, err := json.Marshal(run.Species)
	if err != nil {
		return "", err
	}
	params, err := json.Marshal(run.Params)
	if err != nil {
		return "", err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO analysis_runs (run_id, created_at, combination_type, strategy, species, params)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(createdAtLayout), run.CombinationType, run.Strategy, string(species), string(params))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return run.ID, nil
}

// RunMatrix is one distance matrix of a run.
type RunMatrix struct {
	Metric     distance.Metric
	Resampling int
	Matrix     *distance.Matrix
}

// SaveRun stores run with its similarities and matrices in one transaction.
// Nothing is stored when any part fails.
func (adb *AnalysisDB) SaveRun(ctx context.Context, run *Run, sims []*similarity.DomainSimilarity, matrices []RunMatrix) (string, error) {
	tx, err := adb.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	runID, err := insertRun(ctx, tx, run)
	if err != nil {
		return "", err
	}
	if err := insertSimilarities(ctx, tx, runID, sims); err != nil {
		return "", err
	}
	for _, m := range matrices {
		if err := insertMatrix(ctx, tx, runID, m.Metric, m.Resampling, m.Matrix); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run %s: %w", runID, err)
	}
	return runID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var created, species, params string
	if err := row.Scan(&r.ID, &created, &r.CombinationType, &r.Strategy, &species, &params); err != nil {
		return nil, err
	}
	var err error
	if r.CreatedAt, err = time.Parse(createdAtLayout, created); err != nil {
		return nil, fmt.Errorf("run %s created_at: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(species), &r.Species); err != nil {
		return nil, fmt.Errorf("run %s species: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return nil, fmt.Errorf("run %s params: %w", r.ID, err)
	}
	return &r, nil
}

const runColumns = `run_id, created_at, combination_type, strategy, species, params`

func (adb *AnalysisDB) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := adb.sql.QueryRowContext(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// ListRuns returns all runs, newest first.
func (adb *AnalysisDB) ListRuns(ctx context.Context) ([]*Run, error) {
	rows, err := adb.sql.QueryContext(ctx, `SELECT `+runColumns+` FROM analysis_runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SaveSimilarities stores sims in their current order.
func (adb *AnalysisDB) SaveSimilarities(ctx context.Context, runID string, sims []*similarity.DomainSimilarity) error {
	tx, err := adb.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	if err := insertSimilarities(ctx, tx, runID, sims); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSimilarities(ctx context.Context, q execer, runID string, sims []*similarity.DomainSimilarity) error {
	stm, err := q.PrepareContext(ctx,
		`INSERT INTO domain_similarities (run_id, ordinal, domain_id, similarity) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stm.Close()

	for i, s := range sims {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode similarity %s: %w", s.DomainID, err)
		}
		if _, err := stm.ExecContext(ctx, runID, i, s.DomainID, string(data)); err != nil {
			return fmt.Errorf("insert similarity %s: %w", s.DomainID, err)
		}
	}
	return nil
}

// LoadSimilarities returns the similarities of a run in stored order.
func (adb *AnalysisDB) LoadSimilarities(ctx context.Context, runID string) ([]*similarity.DomainSimilarity, error) {
	if _, err := adb.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := adb.sql.QueryContext(ctx,
		`SELECT similarity FROM domain_similarities WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sims := make([]*similarity.DomainSimilarity, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var s similarity.DomainSimilarity
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, err
		}
		sims = append(sims, &s)
	}
	return sims, rows.Err()
}

// SaveMatrix stores m. Resampling 0 is the matrix over all data, 1..R the
// jackknife resamplings.
func (adb *AnalysisDB) SaveMatrix(ctx context.Context, runID string, metric distance.Metric, resampling int, m *distance.Matrix) error {
	return insertMatrix(ctx, adb.sql, runID, metric, resampling, m)
}

func insertMatrix(ctx context.Context, q execer, runID string, metric distance.Metric, resampling int, m *distance.Matrix) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s matrix: %w", metric, err)
	}
	_, err = q.ExecContext(ctx,
		`INSERT OR REPLACE INTO distance_matrices (run_id, metric, resampling, matrix) VALUES (?, ?, ?, ?)`,
		runID, string(metric), resampling, string(data))
	if err != nil {
		return fmt.Errorf("insert %s matrix: %w", metric, err)
	}
	return nil
}

func (adb *AnalysisDB) LoadMatrix(ctx context.Context, runID string, metric distance.Metric, resampling int) (*distance.Matrix, error) {
	var data string
	err := adb.sql.QueryRowContext(ctx,
		`SELECT matrix FROM distance_matrices WHERE run_id = ? AND metric = ? AND resampling = ?`,
		runID, string(metric), resampling).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s resampling %d of run %s", ErrMatrixNotFound, metric, resampling, runID)
	}
	if err != nil {
		return nil, err
	}
	m := &distance.Matrix{}
	if err := json.Unmarshal([]byte(data), m); err != nil {
		return nil, err
	}
	return m, nil
}

// Number of stored jackknife resamplings of metric.
func (adb *AnalysisDB) CountResamplings(ctx context.Context, runID string, metric distance.Metric) (int, error) {
	var n int
	err := adb.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM distance_matrices WHERE run_id = ? AND metric = ? AND resampling > 0`,
		runID, string(metric)).Scan(&n)
	return n, err
}
