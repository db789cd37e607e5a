// Package tools defines the tool specifications, invocation types and
// builtin parameter shapes shared by the manager and the CLI.
package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NamespaceDelimiter separates a provider name from a tool name in the
// model-facing tool identifier: {provider}___{tool}. Provider names are
// sanitized to letters/digits/underscores and can never contain a triple
// underscore run that would make the split ambiguous.
const NamespaceDelimiter = "___"

// MethodToolsCall is the MCP method for invoking a named tool.
const MethodToolsCall = "tools/call"

// ToolUse is one incoming tool invocation as produced by the model.
type ToolUse struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Status tags a tool result as succeeded or failed.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ContentBlock is one block of tool result content.
type ContentBlock struct {
	Text string `json:"text"`
}

// Result is a tool result relayed back to the model. Routing failures are
// expressed as error-status Results rather than Go errors so the caller can
// forward them into the conversation.
type Result struct {
	ToolUseID string         `json:"tool_use_id"`
	Content   []ContentBlock `json:"content"`
	Status    Status         `json:"status"`
}

// ErrorResult builds an error-status Result carrying the invocation's
// correlation id.
func ErrorResult(toolUseID, text string) *Result {
	return &Result{
		ToolUseID: toolUseID,
		Content:   []ContentBlock{{Text: text}},
		Status:    StatusError,
	}
}

// Tool is a routed invocation: either one of the typed builtin shapes or a
// *RemoteCall targeting a booted provider.
type Tool interface {
	isTool()
}

// Caller is the slice of a booted provider client the remote call path
// needs.
type Caller interface {
	CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error)
}

// RemoteCall is a fully-addressed invocation of a provider tool. Params
// carries the {name, arguments} envelope required by the MCP tools/call
// method; Name is the un-namespaced tool name.
type RemoteCall struct {
	Client Caller
	Name   string
	Method string
	Params *mcp.CallToolParams
}

func (*RemoteCall) isTool() {}

// Invoke sends the call to the owning provider.
func (c *RemoteCall) Invoke(ctx context.Context) (*mcp.CallToolResult, error) {
	return c.Client.CallTool(ctx, c.Params)
}

// SplitNamespaced splits a namespaced tool name on the first occurrence of
// the delimiter. A tool name that itself contains the delimiter is still
// isolated correctly as everything after the first occurrence.
func SplitNamespaced(name string) (provider, tool string, ok bool) {
	return strings.Cut(name, NamespaceDelimiter)
}
