package ai

// Request is one analysis request against the hosted model service.
type Request struct {
	Model  string
	Prompt string
	Tool   ToolDescriptor
}

// ToolDescriptor points the model at a remote MCP server. Tool discovery and
// tool invocation happen entirely inside the remote service; we only pass
// the reference along with the request.
type ToolDescriptor struct {
	Type              string `json:"type"`
	ServerLabel       string `json:"server_label"`
	ServerDescription string `json:"server_description,omitempty"`
	ServerURL         string `json:"server_url"`
	Authorization     string `json:"authorization,omitempty"`
	RequireApproval   string `json:"require_approval,omitempty"`
}

// Response mirrors the Responses API payload, trimmed to the fields the
// pipeline reads.
type Response struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Model  string       `json:"model,omitempty"`
	Output []OutputItem `json:"output"`
	Usage  Usage        `json:"usage"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Output item types.
const (
	OutputMessage = "message"
	OutputMCPList = "mcp_list_tools"
	OutputMCPCall = "mcp_call"
)

// Content and annotation types inside message items.
const (
	ContentText             = "output_text"
	AnnotationContainerFile = "container_file_citation"
)

// OutputItem is a tagged union. Message items carry Role/Content; the MCP
// items carry ServerLabel plus Name/Arguments (call) or Tools (discovery).
type OutputItem struct {
	Type        string     `json:"type"`
	ID          string     `json:"id,omitempty"`
	Status      string     `json:"status,omitempty"`
	Role        string     `json:"role,omitempty"`
	Content     []Content  `json:"content,omitempty"`
	ServerLabel string     `json:"server_label,omitempty"`
	Name        string     `json:"name,omitempty"`
	Arguments   string     `json:"arguments,omitempty"`
	Tools       []ToolInfo `json:"tools,omitempty"`
}

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Content struct {
	Type        string       `json:"type"`
	Text        string       `json:"text,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation marks a file the model produced inside its container.
type Annotation struct {
	Type        string `json:"type"`
	ContainerID string `json:"container_id,omitempty"`
	FileID      string `json:"file_id,omitempty"`
	Filename    string `json:"filename,omitempty"`
}
