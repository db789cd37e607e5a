// Package client provides the handle to one external MCP tool provider.
// A Client is constructed without doing any work; Start brings the
// provider's session online. Failed clients are never restarted: a client
// that did not start simply never enters the manager's map.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vaayne/toolman/internal/config"
	"github.com/vaayne/toolman/internal/tools"
	"github.com/vaayne/toolman/internal/transport"
)

const (
	defaultConnectTimeout = 60 * time.Second
	closeTimeout          = 5 * time.Second
)

// Client is a handle to one configured MCP server. It is safe for
// concurrent use after Start has returned.
type Client struct {
	name    string
	cfg     config.ServerConfig
	factory transport.Factory
	logger  *zap.Logger
	session *mcp.ClientSession
}

// New builds an unstarted client. Construction never blocks and never
// fails; any problem with the configuration surfaces from Start.
func New(name string, cfg config.ServerConfig, logger *zap.Logger) *Client {
	return NewWithFactory(name, cfg, logger, transport.NewDefaultFactory(logger))
}

// NewWithFactory builds an unstarted client with a custom transport
// factory.
func NewWithFactory(name string, cfg config.ServerConfig, logger *zap.Logger, factory transport.Factory) *Client {
	return &Client{
		name:    name,
		cfg:     cfg,
		factory: factory,
		logger:  logger.With(zap.String("server", name)),
	}
}

// Name returns the sanitized provider name this client was built under.
func (c *Client) Name() string {
	return c.name
}

// Start creates the transport and establishes the MCP session. It blocks
// until the handshake completes or fails.
func (c *Client) Start(ctx context.Context) error {
	t, err := c.factory.CreateTransport(c.cfg)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	mcpClient := mcp.NewClient(&mcp.Implementation{
		Name:    "toolman",
		Version: "v1.0.0",
	}, nil)

	connectCtx, cancel := context.WithTimeout(ctx, c.connectTimeout())
	defer cancel()

	session, err := mcpClient.Connect(connectCtx, t, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.session = session
	c.logger.Info("Connected to server", zap.String("transport", c.cfg.GetTransport()))
	return nil
}

func (c *Client) connectTimeout() time.Duration {
	if c.cfg.Timeout != nil && *c.cfg.Timeout > 0 {
		return time.Duration(*c.cfg.Timeout) * time.Second
	}
	return defaultConnectTimeout
}

// GetToolSpec asks the provider for its declared tools. Names are returned
// as the provider declared them; namespacing happens in the manager.
func (c *Client) GetToolSpec(ctx context.Context) ([]tools.ToolSpec, error) {
	if c.session == nil {
		return nil, fmt.Errorf("client %s is not started", c.name)
	}

	result, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	specs := make([]tools.ToolSpec, 0, len(result.Tools))
	for _, t := range result.Tools {
		specs = append(specs, tools.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: toSchemaMap(t.InputSchema),
		})
	}
	return specs, nil
}

// CallTool forwards a tools/call invocation to the provider.
func (c *Client) CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error) {
	if c.session == nil {
		return nil, fmt.Errorf("client %s is not started", c.name)
	}

	result, err := c.session.CallTool(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("tool call failed: %w", err)
	}
	return result, nil
}

// Close tears down the session. The close is bounded: a provider that hangs
// on shutdown is abandoned after a timeout.
func (c *Client) Close() error {
	session := c.session
	c.session = nil
	if session == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to close session for %s: %w", c.name, err)
		}
		return nil
	case <-time.After(closeTimeout):
		c.logger.Warn("Timeout closing session")
		return fmt.Errorf("timeout closing session for %s", c.name)
	}
}

// toSchemaMap normalizes whatever schema representation the SDK hands back
// into a plain JSON object.
func toSchemaMap(schema any) map[string]any {
	switch s := schema.(type) {
	case nil:
		return nil
	case map[string]any:
		return s
	default:
		data, err := json.Marshal(s)
		if err != nil {
			return nil
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil
		}
		return m
	}
}
