package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/stock-analyzer/internal/domain/ai"
)

func messageWithCitation(text string) ai.OutputItem {
	return ai.OutputItem{
		Type:   ai.OutputMessage,
		Role:   "assistant",
		Status: "completed",
		Content: []ai.Content{{
			Type: ai.ContentText,
			Text: text,
			Annotations: []ai.Annotation{{
				Type:        ai.AnnotationContainerFile,
				ContainerID: "cntr_1",
				FileID:      "cfile_1",
				Filename:    "chart.png",
			}},
		}},
	}
}

func TestExtractSummary_TextAndImage(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}
	client := &stubClient{file: image}
	out := filepath.Join(t.TempDir(), "stock_image.png")

	resp := &ai.Response{
		Status: "completed",
		Output: []ai.OutputItem{
			{Type: ai.OutputMCPList, ServerLabel: "AlphaVantage", Tools: []ai.ToolInfo{{Name: "TIME_SERIES_MONTHLY"}}},
			{Type: ai.OutputMCPCall, ServerLabel: "AlphaVantage", Name: "TIME_SERIES_MONTHLY"},
			messageWithCitation("AAPL rose 2%"),
		},
	}

	sum, err := ExtractSummary(context.Background(), client, resp, out)
	require.NoError(t, err)

	assert.Equal(t, "AAPL rose 2%", sum.Report)
	assert.Equal(t, 1, sum.ToolCalls)
	require.Equal(t, []string{out}, sum.ArtifactPaths)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, image, data)
}

func TestExtractSummary_EmptyResponse(t *testing.T) {
	client := &stubClient{}
	out := filepath.Join(t.TempDir(), "stock_image.png")

	_, err := ExtractSummary(context.Background(), client, &ai.Response{Status: "completed"}, out)
	require.ErrorIs(t, err, ai.ErrEmptyResponse)

	_, serr := os.Stat(out)
	assert.True(t, os.IsNotExist(serr))
}

func TestExtractSummary_TextOnly(t *testing.T) {
	client := &stubClient{}
	out := filepath.Join(t.TempDir(), "stock_image.png")

	resp := &ai.Response{Output: []ai.OutputItem{{
		Type:    ai.OutputMessage,
		Content: []ai.Content{{Type: ai.ContentText, Text: "sideways trend"}},
	}}}

	sum, err := ExtractSummary(context.Background(), client, resp, out)
	require.NoError(t, err)
	assert.Equal(t, "sideways trend", sum.Report)
	assert.Empty(t, sum.ArtifactPaths)
}

func TestExtractSummary_MultipleCitations(t *testing.T) {
	client := &stubClient{file: []byte("img")}
	out := filepath.Join(t.TempDir(), "stock_image.png")

	msg := messageWithCitation("two charts")
	msg.Content[0].Annotations = append(msg.Content[0].Annotations, ai.Annotation{
		Type:        ai.AnnotationContainerFile,
		ContainerID: "cntr_1",
		FileID:      "cfile_2",
		Filename:    "volume.png",
	})

	sum, err := ExtractSummary(context.Background(), client, &ai.Response{Output: []ai.OutputItem{msg}}, out)
	require.NoError(t, err)

	require.Len(t, sum.ArtifactPaths, 2)
	assert.Equal(t, out, sum.ArtifactPaths[0])
	assert.Equal(t, filepath.Join(filepath.Dir(out), "stock_image_1.png"), sum.ArtifactPaths[1])
	for _, p := range sum.ArtifactPaths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestExtractSummary_DownloadFailure(t *testing.T) {
	client := &stubClient{fileErr: errors.New("boom")}
	out := filepath.Join(t.TempDir(), "stock_image.png")

	_, err := ExtractSummary(context.Background(), client, &ai.Response{Output: []ai.OutputItem{messageWithCitation("text")}}, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cfile_1")
}
