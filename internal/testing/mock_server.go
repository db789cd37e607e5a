// Package testing provides an in-process MCP server for exercising the
// client and manager against real protocol sessions.
package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MockTool represents a configurable mock tool
type MockTool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)
}

// MockServerConfig holds configuration for a mock server
type MockServerConfig struct {
	ServerName    string
	Version       string
	Tools         []MockTool
	SimulateDelay time.Duration
	FailOnCall    bool
}

// MockServer implements a mock MCP server for testing
type MockServer struct {
	config      MockServerConfig
	server      *mcp.Server
	callHistory []CallRecord
	mu          sync.Mutex
}

// CallRecord tracks a tool call
type CallRecord struct {
	ToolName  string
	Arguments map[string]any
	Timestamp time.Time
}

// NewMockServer creates a new mock MCP server
func NewMockServer(config MockServerConfig) *MockServer {
	if config.ServerName == "" {
		config.ServerName = "mock-server"
	}
	if config.Version == "" {
		config.Version = "v1.0.0"
	}

	ms := &MockServer{
		config:      config,
		callHistory: make([]CallRecord, 0),
	}

	ms.server = mcp.NewServer(&mcp.Implementation{
		Name:    config.ServerName,
		Version: config.Version,
	}, nil)

	for _, tool := range config.Tools {
		ms.registerTool(tool)
	}

	return ms
}

// registerTool registers a mock tool with the server
func (ms *MockServer) registerTool(tool MockTool) {
	mcpTool := &mcp.Tool{
		Name:        tool.Name,
		Description: tool.Description,
		InputSchema: tool.InputSchema,
	}

	handler := func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
			}
		}

		ms.mu.Lock()
		ms.callHistory = append(ms.callHistory, CallRecord{
			ToolName:  tool.Name,
			Arguments: args,
			Timestamp: time.Now(),
		})
		ms.mu.Unlock()

		if ms.config.FailOnCall {
			return nil, fmt.Errorf("simulated tool failure")
		}

		if ms.config.SimulateDelay > 0 {
			select {
			case <-time.After(ms.config.SimulateDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if tool.Handler != nil {
			return tool.Handler(ctx, args)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Text: fmt.Sprintf("Mock response from %s", tool.Name),
				},
			},
		}, nil
	}

	ms.server.AddTool(mcpTool, handler)
}

// Start starts the mock server with the given transport
func (ms *MockServer) Start(ctx context.Context, transport mcp.Transport) error {
	return ms.server.Run(ctx, transport)
}

// StartInMemory runs the server over an in-memory pipe and returns the
// client-side transport. The server stops when ctx is canceled.
func (ms *MockServer) StartInMemory(ctx context.Context) mcp.Transport {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = ms.server.Run(ctx, serverTransport)
	}()
	return clientTransport
}

// GetCallHistory returns the call history
func (ms *MockServer) GetCallHistory() []CallRecord {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	history := make([]CallRecord, len(ms.callHistory))
	copy(history, ms.callHistory)
	return history
}

// GetCallCount returns the number of calls to a specific tool
func (ms *MockServer) GetCallCount(toolName string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	count := 0
	for _, call := range ms.callHistory {
		if call.ToolName == toolName {
			count++
		}
	}
	return count
}

// CreateEchoTool creates a simple echo tool that returns its input
func CreateEchoTool(name string) MockTool {
	return MockTool{
		Name:        name,
		Description: fmt.Sprintf("Echo tool named %s", name),
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{
					"type":        "string",
					"description": "Message to echo",
				},
			},
			"required": []string{"message"},
		},
		Handler: func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			message, ok := args["message"].(string)
			if !ok {
				return nil, fmt.Errorf("message must be a string")
			}

			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Text: message,
					},
				},
			}, nil
		},
	}
}

// CreateForecastTool creates a weather forecast tool used in routing tests
func CreateForecastTool() MockTool {
	return MockTool{
		Name:        "get_forecast",
		Description: "Get the weather forecast for a city",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "City to forecast",
				},
			},
			"required": []string{"city"},
		},
		Handler: func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			city, _ := args["city"].(string)
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{
						Text: fmt.Sprintf("Sunny in %s", city),
					},
				},
			}, nil
		},
	}
}
