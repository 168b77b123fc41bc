package ai

import "context"

// Client is the outbound port to the hosted model service.
type Client interface {
	CreateAnalysis(ctx context.Context, req Request) (*Response, error)
	DownloadContainerFile(ctx context.Context, containerID, fileID string) ([]byte, error)
}
