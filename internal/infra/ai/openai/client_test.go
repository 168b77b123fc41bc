package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/stock-analyzer/internal/domain/ai"
)

func testRequest() domai.Request {
	return domai.Request{
		Model:  "gpt-5-mini",
		Prompt: "Please analyze the AAPL stock",
		Tool: domai.ToolDescriptor{
			Type:            "mcp",
			ServerLabel:     "AlphaVantage",
			ServerURL:       "https://mcp.example.com/mcp",
			Authorization:   "av-key",
			RequireApproval: "never",
		},
	}
}

func TestCreateAnalysis_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Model string           `json:"model"`
			Input string           `json:"input"`
			Tools []map[string]any `json:"tools"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-5-mini", body.Model)
		assert.Contains(t, body.Input, "AAPL")
		require.Len(t, body.Tools, 2)
		assert.Equal(t, "mcp", body.Tools[0]["type"])
		assert.Equal(t, "AlphaVantage", body.Tools[0]["server_label"])
		assert.Equal(t, "https://mcp.example.com/mcp", body.Tools[0]["server_url"])
		assert.Equal(t, "av-key", body.Tools[0]["authorization"])
		assert.Equal(t, "never", body.Tools[0]["require_approval"])
		assert.Equal(t, "code_interpreter", body.Tools[1]["type"])

		fmt.Fprint(w, `{
			"id": "resp_123",
			"status": "completed",
			"output": [
				{"type": "mcp_list_tools", "server_label": "AlphaVantage", "tools": [{"name": "TIME_SERIES_MONTHLY"}]},
				{"type": "mcp_call", "server_label": "AlphaVantage", "name": "TIME_SERIES_MONTHLY", "arguments": "{\"symbol\":\"AAPL\"}"},
				{"type": "message", "id": "msg_1", "role": "assistant", "status": "completed",
				 "content": [{"type": "output_text", "text": "AAPL rose 2%",
					"annotations": [{"type": "container_file_citation", "container_id": "cntr_1", "file_id": "cfile_1", "filename": "chart.png"}]}]}
			],
			"usage": {"input_tokens": 10, "output_tokens": 20}
		}`)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	resp, err := c.CreateAnalysis(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "resp_123", resp.ID)
	assert.Equal(t, "completed", resp.Status)
	require.Len(t, resp.Output, 3)
	assert.Equal(t, domai.OutputMCPList, resp.Output[0].Type)
	assert.Equal(t, domai.OutputMCPCall, resp.Output[1].Type)
	assert.Equal(t, "TIME_SERIES_MONTHLY", resp.Output[1].Name)
	assert.Equal(t, domai.OutputMessage, resp.Output[2].Type)
	assert.Equal(t, "AAPL rose 2%", resp.Output[2].Content[0].Text)
	assert.Equal(t, "cfile_1", resp.Output[2].Content[0].Annotations[0].FileID)
	assert.Equal(t, 10, resp.Usage.InputTokens)
}

func TestCreateAnalysis_AuthenticationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`)
	}))
	defer srv.Close()

	c := NewClient("sk-bad", WithBaseURL(srv.URL))
	_, err := c.CreateAnalysis(context.Background(), testRequest())
	require.Error(t, err)

	require.True(t, domai.IsAuth(err))
	var auth *domai.AuthenticationError
	require.ErrorAs(t, err, &auth)
	assert.Equal(t, http.StatusUnauthorized, auth.Status)
	assert.Contains(t, auth.Message, "Incorrect API key")
}

func TestCreateAnalysis_APIErrors(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				fmt.Fprint(w, `{"error": {"message": "something went wrong", "code": "server_error"}}`)
			}))
			defer srv.Close()

			c := NewClient("sk-test", WithBaseURL(srv.URL))
			_, err := c.CreateAnalysis(context.Background(), testRequest())
			require.Error(t, err)

			require.True(t, domai.IsAPI(err))
			var api *domai.APIError
			require.ErrorAs(t, err, &api)
			assert.Equal(t, status, api.Status)
			assert.Equal(t, "server_error", api.Code)
		})
	}
}

func TestCreateAnalysis_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("sk-test", WithBaseURL(url))
	_, err := c.CreateAnalysis(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, domai.IsNetwork(err))
}

func TestDownloadContainerFile(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/containers/cntr_1/files/cfile_1/content", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	data, err := c.DownloadContainerFile(context.Background(), "cntr_1", "cfile_1")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadContainerFile_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"message": "No such file"}}`)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	_, err := c.DownloadContainerFile(context.Background(), "cntr_1", "cfile_missing")
	require.Error(t, err)
	assert.True(t, domai.IsAPI(err))
}

func TestCreateAnalysis_AcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id": "resp_2", "status": "completed", "output": [{"type": "message", "content": [{"type": "output_text", "text": "ok"}]}]}`)
	}))
	defer srv.Close()

	c := NewClient("sk-test", WithBaseURL(srv.URL))
	resp, err := c.CreateAnalysis(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "resp_2", resp.ID)
}
