package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/stock-analyzer/internal/domain/ai"
)

// Summary is what a completed run hands back to the caller.
type Summary struct {
	Report        string
	ArtifactPaths []string
	ToolCalls     int
}

// ExtractSummary walks the response output: assistant text accumulates into
// the report, container file citations are downloaded and written under
// outputPath (overwriting prior artifacts), MCP activity is traced at debug.
// A response with neither text nor citations is an empty response.
func ExtractSummary(ctx context.Context, files ai.Client, resp *ai.Response, outputPath string) (Summary, error) {
	var sum Summary
	var report strings.Builder
	var citations []ai.Annotation

	for _, item := range resp.Output {
		switch item.Type {
		case ai.OutputMCPList:
			logrus.WithFields(logrus.Fields{
				"server_label": item.ServerLabel,
				"tools":        len(item.Tools),
			}).Debug("mcp tool discovery")
		case ai.OutputMCPCall:
			sum.ToolCalls++
			logrus.WithFields(logrus.Fields{
				"server_label": item.ServerLabel,
				"tool":         item.Name,
			}).Debug("mcp tool call")
		case ai.OutputMessage:
			for _, c := range item.Content {
				if c.Type == ai.ContentText && c.Text != "" {
					if report.Len() > 0 {
						report.WriteString("\n")
					}
					report.WriteString(c.Text)
				}
				for _, a := range c.Annotations {
					if a.Type == ai.AnnotationContainerFile {
						citations = append(citations, a)
					}
				}
			}
		}
	}

	sum.Report = report.String()
	if sum.Report == "" && len(citations) == 0 {
		return Summary{}, ai.ErrEmptyResponse
	}

	for i, cit := range citations {
		data, err := files.DownloadContainerFile(ctx, cit.ContainerID, cit.FileID)
		if err != nil {
			return Summary{}, fmt.Errorf("download container file %s: %w", cit.FileID, err)
		}
		path := artifactPath(outputPath, i)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return Summary{}, fmt.Errorf("write artifact %s: %w", path, err)
		}
		sum.ArtifactPaths = append(sum.ArtifactPaths, path)
	}

	return sum, nil
}

// artifactPath keeps the fixed output path for the first citation; later ones
// get an index suffix so nothing is silently dropped.
func artifactPath(base string, i int) string {
	if i == 0 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), i, ext)
}
