package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/stock-analyzer/internal/domain/analysis"
)

type RunRepository struct{ db *sql.DB }

func NewRunRepository(db *sql.DB) *RunRepository { return &RunRepository{db: db} }

// Save insert/update a run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO analysis_runs
(id, requested_at, model, symbol, time_window, status,
 report, error, artifact_url, tool_calls, duration_ms)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 report = EXCLUDED.report,
 error = EXCLUDED.error,
 artifact_url = EXCLUDED.artifact_url,
 tool_calls = EXCLUDED.tool_calls,
 duration_ms = EXCLUDED.duration_ms;`

	requested := run.RequestedAt
	if requested.IsZero() {
		requested = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		run.ID, requested, run.Model, run.Symbol, run.Window, run.Status,
		run.Report, run.Error, run.ArtifactURL, run.ToolCalls, run.DurationMS,
	)
	return err
}

// Latest runs, newest first
func (r *RunRepository) Latest(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, requested_at, model, symbol, time_window, status,
       report, error, artifact_url, tool_calls, duration_ms
FROM analysis_runs
ORDER BY requested_at DESC LIMIT $1;`

	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Run
	for rows.Next() {
		var run domain.Run
		if err := rows.Scan(
			&run.ID, &run.RequestedAt, &run.Model, &run.Symbol, &run.Window, &run.Status,
			&run.Report, &run.Error, &run.ArtifactURL, &run.ToolCalls, &run.DurationMS,
		); err != nil {
			return nil, err
		}
		out = append(out, &run)
	}
	return out, rows.Err()
}
