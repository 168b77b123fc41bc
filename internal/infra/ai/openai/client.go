package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/stock-analyzer/internal/domain/ai"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-5-mini"
)

// Client talks to the Responses API. One request per run, no retries.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 600 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Tools []any  `json:"tools"`
}

type codeInterpreterTool struct {
	Type      string                   `json:"type"`
	Container codeInterpreterContainer `json:"container"`
}

type codeInterpreterContainer struct {
	Type string `json:"type"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// CreateAnalysis sends one blocking request. The remote service performs tool
// discovery and any tool calls against the MCP server before answering.
func (c *Client) CreateAnalysis(ctx context.Context, req ai.Request) (*ai.Response, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}
	tool := req.Tool
	if tool.Type == "" {
		tool.Type = "mcp"
	}

	payload := responsesRequest{
		Model: model,
		Input: req.Prompt,
		Tools: []any{
			tool,
			codeInterpreterTool{
				Type:      "code_interpreter",
				Container: codeInterpreterContainer{Type: "auto"},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"model":        model,
		"server_label": tool.ServerLabel,
		"server_url":   tool.ServerURL,
	}).Debug("sending responses request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &ai.NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ai.NetworkError{Cause: err}
	}

	if resp.StatusCode/100 != 2 {
		return nil, classifyStatus(resp.StatusCode, data)
	}

	var out ai.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"id":            out.ID,
		"status":        out.Status,
		"output_items":  len(out.Output),
		"input_tokens":  out.Usage.InputTokens,
		"output_tokens": out.Usage.OutputTokens,
	}).Debug("responses request done")

	return &out, nil
}

// DownloadContainerFile fetches the raw bytes of a file the model produced
// inside its code-interpreter container.
func (c *Client) DownloadContainerFile(ctx context.Context, containerID, fileID string) ([]byte, error) {
	url := fmt.Sprintf("%s/containers/%s/files/%s/content", c.baseURL, containerID, fileID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &ai.NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		data, _ := io.ReadAll(resp.Body)
		return nil, classifyStatus(resp.StatusCode, data)
	}
	return io.ReadAll(resp.Body)
}

// classifyStatus maps a non-2xx response to the error taxonomy. 401/403 mean
// a rejected credential; everything else (429 quota, 5xx) is an api error.
func classifyStatus(status int, body []byte) error {
	var parsed apiErrorBody
	_ = json.Unmarshal(body, &parsed)
	msg := parsed.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ai.AuthenticationError{Status: status, Message: msg}
	default:
		return &ai.APIError{Status: status, Code: parsed.Error.Code, Message: msg}
	}
}
