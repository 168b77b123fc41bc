package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/stock-analyzer/internal/domain/ai"
	domain "github.com/bryanwahyu/stock-analyzer/internal/domain/analysis"
)

// Service implements the single-run analysis use-case. The flow is strictly
// linear: dispatch one request, extract the result, save artifacts, then feed
// the optional sinks. Nothing is retried.
type Service struct {
	Client     ai.Client
	Repo       domain.Repository    // optional
	Artifacts  domain.ArtifactStore // optional
	Clock      Clock
	OutputPath string
}

// Clock abstraction so runs are easy to test
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Command for one analysis run
type AnalyzeCommand struct {
	Model         string
	Symbol        string
	Window        string
	Prompt        string
	ServerLabel   string
	ServerURL     string
	Authorization string
}

type AnalyzeResult struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Report        string   `json:"report"`
	ArtifactPaths []string `json:"artifact_paths,omitempty"`
	ArtifactURL   string   `json:"artifact_url,omitempty"`
	ToolCalls     int      `json:"tool_calls"`
	DurationMS    int64    `json:"duration_ms"`
}

// Analyze dispatches the request → extracts the summary → writes artifacts →
// records the run. Sink failures (history, object storage) are logged only;
// they never change the outcome.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (AnalyzeResult, error) {
	now := s.Clock.Now()
	id := uuid.New().String()

	req := ai.Request{
		Model:  cmd.Model,
		Prompt: cmd.Prompt,
		Tool: ai.ToolDescriptor{
			Type:              "mcp",
			ServerLabel:       cmd.ServerLabel,
			ServerDescription: fmt.Sprintf("%s MCP server for financial market data", cmd.ServerLabel),
			ServerURL:         cmd.ServerURL,
			Authorization:     cmd.Authorization,
			RequireApproval:   "never",
		},
	}

	resp, err := s.Client.CreateAnalysis(ctx, req)
	if err != nil {
		s.record(ctx, s.failedRun(id, now, cmd, err))
		return AnalyzeResult{ID: id, Status: string(domain.StatusFailed)}, err
	}

	summary, err := ExtractSummary(ctx, s.Client, resp, s.OutputPath)
	if err != nil {
		s.record(ctx, s.failedRun(id, now, cmd, err))
		return AnalyzeResult{ID: id, Status: string(domain.StatusFailed)}, err
	}

	run := &domain.Run{
		ID:            domain.RunID(id),
		RequestedAt:   now,
		Model:         cmd.Model,
		Symbol:        cmd.Symbol,
		Window:        cmd.Window,
		Status:        domain.StatusSuccess,
		Report:        summary.Report,
		ArtifactPaths: summary.ArtifactPaths,
		ToolCalls:     summary.ToolCalls,
	}

	if s.Artifacts != nil {
		for _, p := range summary.ArtifactPaths {
			key := fmt.Sprintf("%s/%s", id, filepath.Base(p))
			url, uerr := s.Artifacts.Upload(ctx, p, key)
			if uerr != nil {
				logrus.WithError(uerr).WithField("path", p).Error("artifact upload failed")
				continue
			}
			// first uploaded chart identifies the run
			if run.ArtifactURL == "" {
				run.ArtifactURL = url
			}
		}
	}

	run.DurationMS = s.Clock.Now().Sub(now).Milliseconds()
	s.record(ctx, run)

	return AnalyzeResult{
		ID:            id,
		Status:        string(run.Status),
		Report:        run.Report,
		ArtifactPaths: run.ArtifactPaths,
		ArtifactURL:   run.ArtifactURL,
		ToolCalls:     run.ToolCalls,
		DurationMS:    run.DurationMS,
	}, nil
}

func (s *Service) failedRun(id string, now time.Time, cmd AnalyzeCommand, cause error) *domain.Run {
	return &domain.Run{
		ID:          domain.RunID(id),
		RequestedAt: now,
		Model:       cmd.Model,
		Symbol:      cmd.Symbol,
		Window:      cmd.Window,
		Status:      domain.StatusFailed,
		Error:       cause.Error(),
		DurationMS:  s.Clock.Now().Sub(now).Milliseconds(),
	}
}

func (s *Service) record(ctx context.Context, r *domain.Run) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Save(ctx, r); err != nil {
		logrus.WithError(err).Error("failed to record analysis run")
	}
}
