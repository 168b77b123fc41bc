package analysis

import "time"

// ID type for a Run
type RunID string

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Aggregate Root: one analysis run. ArtifactPaths are local and transient;
// only the uploaded ArtifactURL survives into history.
type Run struct {
	ID            RunID     `json:"id"`
	RequestedAt   time.Time `json:"requested_at"`
	Model         string    `json:"model"`
	Symbol        string    `json:"symbol"`
	Window        string    `json:"window"`
	Status        Status    `json:"status"`
	Report        string    `json:"report,omitempty"`
	Error         string    `json:"error,omitempty"`
	ArtifactURL   string    `json:"artifact_url,omitempty"`
	ArtifactPaths []string  `json:"artifact_paths,omitempty"`
	ToolCalls     int       `json:"tool_calls"`
	DurationMS    int64     `json:"duration_ms"`
}
