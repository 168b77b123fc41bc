package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/stock-analyzer/internal/domain/analysis"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save insert/update a run record
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	const q = `
INSERT INTO analysis_runs
(id, requested_at, model, symbol, time_window, status,
 report, error, artifact_url, tool_calls, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), report=VALUES(report), error=VALUES(error),
 artifact_url=VALUES(artifact_url), tool_calls=VALUES(tool_calls), duration_ms=VALUES(duration_ms);
`
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
ORDER BY requested_at DESC LIMIT ?;
`
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
