package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/inspect"
	"github.com/zheng/documember/internal/render"
	"github.com/zheng/documember/internal/storage"
	"github.com/zheng/documember/internal/summary"
)

// Server implements the MCP protocol for documember
type Server struct {
	db     *storage.DB
	logger *log.Logger
	input  io.Reader
	output io.Writer
}

// NewServer creates a new MCP server
func NewServer(db *storage.DB, logger *log.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		input:  os.Stdin,
		output: os.Stdout,
	}
}

// JSON-RPC types
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCP specific types
type InitializeParams struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ClientInfo      ClientInfo `json:"clientInfo"`
}

type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    Capabilities `json:"capabilities"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Capabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

type ToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type ToolCallResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Run starts the MCP server
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.input)
	// Increase buffer size for large messages
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.sendError(nil, -32700, "Parse error")
			continue
		}

		s.handleRequest(&req)
	}

	return scanner.Err()
}

func (s *Server) handleRequest(req *Request) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "initialized":
		// Notification, no response needed
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(req)
	default:
		s.sendError(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *Request) {
	result := InitializeResult{
		ProtocolVersion: "2024-11-05",
		ServerInfo: ServerInfo{
			Name:    "documember",
			Version: "1.0.0",
		},
		Capabilities: Capabilities{
			Tools: &ToolsCapability{},
		},
	}
	s.sendResult(req.ID, result)
}

func (s *Server) handleToolsList(req *Request) {
	tools := []Tool{
		{
			Name:        "report",
			Description: "Render an annotated member tree for a Go package directory or a namespace description file, marking undocumented, inherited, imported and exported members",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"target": {
						Type:        "string",
						Description: "Package directory or .json description file to audit",
					},
					"include_private": {
						Type:        "boolean",
						Description: "Include private members (single leading underscore)",
						Default:     false,
					},
					"include_dunder": {
						Type:        "boolean",
						Description: "Include dunder members (double leading and trailing underscores)",
						Default:     false,
					},
					"include_imported": {
						Type:        "boolean",
						Description: "Include members defined in other namespaces",
						Default:     false,
					},
					"ignore_all": {
						Type:        "boolean",
						Description: "Ignore declared export lists when selecting and ordering members",
						Default:     false,
					},
					"max_depth": {
						Type:        "number",
						Description: "Maximum submodule recursion depth, 0 for unlimited",
						Default:     0,
					},
				},
				Required: []string{"target"},
			},
		},
		{
			Name:        "coverage",
			Description: "Compute documentation coverage statistics for a target, broken down by member kind and namespace",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"target": {
						Type:        "string",
						Description: "Package directory or .json description file to audit",
					},
					"include_private": {
						Type:        "boolean",
						Description: "Include private members in the counts",
						Default:     false,
					},
				},
				Required: []string{"target"},
			},
		},
		{
			Name:        "history",
			Description: "List recorded coverage snapshots, newest first",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"target": {
						Type:        "string",
						Description: "Only show snapshots for this target",
					},
					"limit": {
						Type:        "number",
						Description: "Maximum number of snapshots to return, default 20",
						Default:     20,
					},
				},
			},
		},
	}

	s.sendResult(req.ID, map[string]interface{}{"tools": tools})
}

func (s *Server) handleToolsCall(req *Request) {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, -32602, "Invalid params")
		return
	}

	var result string
	var isError bool

	switch params.Name {
	case "report":
		result, isError = s.toolReport(params.Arguments)
	case "coverage":
		result, isError = s.toolCoverage(params.Arguments)
	case "history":
		result, isError = s.toolHistory(params.Arguments)
	default:
		result = fmt.Sprintf("Unknown tool: %s", params.Name)
		isError = true
	}

	s.sendResult(req.ID, ToolCallResult{
		Content: []ContentItem{{Type: "text", Text: result}},
		IsError: isError,
	})
}

func (s *Server) audit(args map[string]interface{}) (*summary.Node, error) {
	target, ok := args["target"].(string)
	if !ok || target == "" {
		return nil, fmt.Errorf("a target is required")
	}

	cfg := summary.Config{Logger: s.logger}
	if v, ok := args["include_private"].(bool); ok {
		cfg.IncludePrivate = v
	}
	if v, ok := args["include_dunder"].(bool); ok {
		cfg.IncludeDunder = v
	}
	if v, ok := args["include_imported"].(bool); ok {
		cfg.IncludeImported = v
	}
	if v, ok := args["ignore_all"].(bool); ok {
		cfg.IgnoreExports = v
	}
	if v, ok := args["max_depth"].(float64); ok && v > 0 {
		cfg.MaxDepth = int(v)
	}

	mod, err := inspect.Resolve(target, s.logger)
	if err != nil {
		return nil, err
	}
	return summary.Build(mod, cfg), nil
}

func (s *Server) toolReport(args map[string]interface{}) (string, bool) {
	root, err := s.audit(args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return render.Text(root, render.Config{}), false
}

func (s *Server) toolCoverage(args map[string]interface{}) (string, bool) {
	target, _ := args["target"].(string)

	root, err := s.audit(args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}

	stats := coverage.Compute(target, root)
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}
	return string(data), false
}

func (s *Server) toolHistory(args map[string]interface{}) (string, bool) {
	if s.db == nil {
		return "Error: no history database is open", true
	}

	target, _ := args["target"].(string)

	limit := 20
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	runs, err := s.db.ListRuns(target, limit)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true
	}

	if len(runs) == 0 {
		return "No recorded snapshots. Run `documember record <target>` first.", false
	}

	result := "## Coverage history\n\n"
	result += "| ID | Target | Recorded | Members | Documented | Coverage |\n"
	result += "|----|--------|----------|---------|------------|----------|\n"
	for _, run := range runs {
		result += fmt.Sprintf("| %d | %s | %s | %d | %d | %.1f%% |\n",
			run.ID, run.Target, run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Total, run.Documented, run.Percent())
	}

	return result, false
}

func (s *Server) sendResult(id interface{}, result interface{}) {
	resp := Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	s.send(resp)
}

func (s *Server) sendError(id interface{}, code int, message string) {
	resp := Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
	s.send(resp)
}

func (s *Server) send(resp Response) {
	data, _ := json.Marshal(resp)
	fmt.Fprintln(s.output, string(data))
}
