package client

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaayne/toolman/internal/config"
	"github.com/vaayne/toolman/internal/logging"
	mcptesting "github.com/vaayne/toolman/internal/testing"
	"github.com/vaayne/toolman/internal/transport"
)

// memoryFactory hands every client the same pre-connected in-memory
// transport.
type memoryFactory struct {
	transport mcp.Transport
}

func (f *memoryFactory) CreateTransport(cfg config.ServerConfig) (mcp.Transport, error) {
	return f.transport, nil
}

func startMockClient(t *testing.T, tools ...mcptesting.MockTool) *Client {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := mcptesting.NewMockServer(mcptesting.MockServerConfig{
		ServerName: "mock",
		Tools:      tools,
	})
	clientTransport := server.StartInMemory(ctx)

	c := NewWithFactory("mock", config.ServerConfig{Command: "unused"}, logging.NopLogger(), &memoryFactory{transport: clientTransport})
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_ConstructionDoesNotConnect(t *testing.T) {
	c := New("weather", config.ServerConfig{Command: "/nonexistent/server"}, logging.NopLogger())

	assert.Equal(t, "weather", c.Name())
	assert.Nil(t, c.session)
}

func TestClient_StartFailsForInvalidCommand(t *testing.T) {
	timeout := 2
	c := New("broken", config.ServerConfig{
		Command: "/nonexistent/command/that/does/not/exist",
		Timeout: &timeout,
	}, logging.NopLogger())

	err := c.Start(context.Background())
	assert.Error(t, err)
}

func TestClient_StartFailsForInvalidTransportConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.ServerConfig
		expectErr string
	}{
		{"http without url", config.ServerConfig{Transport: "http"}, "url is required"},
		{"unknown transport", config.ServerConfig{Transport: "websocket"}, "unsupported transport"},
		{"shell command", config.ServerConfig{Command: "bash"}, "shell interpreters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("bad", tt.cfg, logging.NopLogger())
			err := c.Start(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestClient_GetToolSpecBeforeStart(t *testing.T) {
	c := New("weather", config.ServerConfig{Command: "weather-server"}, logging.NopLogger())

	_, err := c.GetToolSpec(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

func TestClient_GetToolSpec(t *testing.T) {
	c := startMockClient(t, mcptesting.CreateEchoTool("echo"), mcptesting.CreateForecastTool())

	specs, err := c.GetToolSpec(context.Background())
	require.NoError(t, err)
	require.Len(t, specs, 2)

	names := []string{specs[0].Name, specs[1].Name}
	assert.ElementsMatch(t, []string{"echo", "get_forecast"}, names)
	for _, spec := range specs {
		assert.NotEmpty(t, spec.Description)
		assert.NotNil(t, spec.InputSchema)
	}
}

func TestClient_CallTool(t *testing.T) {
	c := startMockClient(t, mcptesting.CreateEchoTool("echo"))

	result, err := c.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "echo",
		Arguments: map[string]any{"message": "hello"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "hello", text.Text)
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := startMockClient(t, mcptesting.CreateEchoTool("echo"))

	start := time.Now()
	_ = c.Close()
	assert.NoError(t, c.Close())
	assert.Less(t, time.Since(start), closeTimeout)
}

var _ transport.Factory = (*memoryFactory)(nil)
