// Package transport turns a server configuration into an MCP transport.
// Validation of the launch/connection shape happens here, at boot time, so
// a malformed server definition fails only its own provider instead of the
// whole configuration load.
package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vaayne/toolman/internal/config"
)

// Factory creates the appropriate transport for a server configuration.
type Factory interface {
	CreateTransport(cfg config.ServerConfig) (mcp.Transport, error)
}

// DefaultFactory implements Factory with support for stdio, http, and sse
type DefaultFactory struct {
	logger     *zap.Logger
	httpClient *http.Client // optional custom HTTP client
}

// NewDefaultFactory creates a new DefaultFactory
func NewDefaultFactory(logger *zap.Logger) *DefaultFactory {
	return &DefaultFactory{logger: logger}
}

// CreateTransport creates the appropriate transport based on the server configuration
func (f *DefaultFactory) CreateTransport(cfg config.ServerConfig) (mcp.Transport, error) {
	transport := strings.ToLower(cfg.GetTransport())

	switch transport {
	case "stdio":
		return f.createStdioTransport(cfg)
	case "http":
		return f.createHTTPTransport(cfg)
	case "sse":
		return f.createSSETransport(cfg)
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transport)
	}
}

// createStdioTransport creates a CommandTransport for stdio communication
func (f *DefaultFactory) createStdioTransport(cfg config.ServerConfig) (mcp.Transport, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required for stdio transport")
	}
	if cfg.URL != "" {
		return nil, fmt.Errorf("url must not be set for stdio transport")
	}
	if err := validateCommandPath(cfg.Command); err != nil {
		return nil, err
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)

	cleanEnv := os.Environ()
	for k, v := range cfg.Env {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		cleanEnv = append(cleanEnv, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = cleanEnv

	f.logger.Debug("Created stdio transport",
		zap.String("command", cfg.Command),
		zap.Strings("args", cfg.Args))

	return &mcp.CommandTransport{Command: cmd}, nil
}

// createHTTPTransport creates a StreamableClientTransport for HTTP communication
func (f *DefaultFactory) createHTTPTransport(cfg config.ServerConfig) (mcp.Transport, error) {
	if err := validateURL(cfg); err != nil {
		return nil, err
	}

	transport := &mcp.StreamableClientTransport{
		Endpoint:   cfg.URL,
		HTTPClient: f.getHTTPClient(cfg),
		MaxRetries: 3,
	}

	f.logger.Debug("Created HTTP transport", zap.String("url", cfg.URL))

	return transport, nil
}

// createSSETransport creates an SSEClientTransport for Server-Sent Events communication
func (f *DefaultFactory) createSSETransport(cfg config.ServerConfig) (mcp.Transport, error) {
	if err := validateURL(cfg); err != nil {
		return nil, err
	}

	transport := &mcp.SSEClientTransport{
		Endpoint:   cfg.URL,
		HTTPClient: f.getHTTPClient(cfg),
	}

	f.logger.Debug("Created SSE transport", zap.String("url", cfg.URL))

	return transport, nil
}

// getHTTPClient creates an HTTP client with the appropriate configuration
func (f *DefaultFactory) getHTTPClient(cfg config.ServerConfig) *http.Client {
	if f.httpClient != nil {
		return f.httpClient
	}

	timeout := 30 * time.Second
	if cfg.Timeout != nil && *cfg.Timeout > 0 {
		timeout = time.Duration(*cfg.Timeout) * time.Second
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if cfg.TLSSkipVerify != nil && *cfg.TLSSkipVerify {
		f.logger.Warn("TLS verification disabled - this is insecure and should only be used for development",
			zap.String("url", cfg.URL))
		tlsConfig.InsecureSkipVerify = true
	}

	transport := &headerTransport{
		Base: &http.Transport{
			TLSClientConfig: tlsConfig,
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
		Headers: cfg.Headers,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// validateURL validates the endpoint for http/sse transports
func validateURL(cfg config.ServerConfig) error {
	if cfg.URL == "" {
		return fmt.Errorf("url is required for %s transport", strings.ToLower(cfg.GetTransport()))
	}
	if cfg.Command != "" {
		return fmt.Errorf("command must not be set for %s transport", strings.ToLower(cfg.GetTransport()))
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url must have a host")
	}
	if cfg.Timeout != nil && *cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	return nil
}

// validateCommandPath validates a command path for security issues
func validateCommandPath(command string) error {
	const maxCommandLength = 1024

	if len(command) > maxCommandLength {
		return fmt.Errorf("command exceeds maximum length of %d", maxCommandLength)
	}
	if strings.Contains(command, "..") {
		return fmt.Errorf("invalid command path (contains path traversal): %s", command)
	}
	if strings.HasPrefix(command, "~") {
		return fmt.Errorf("invalid command path (tilde expansion not allowed): %s", command)
	}
	if strings.Contains(command, "\x00") {
		return fmt.Errorf("invalid command path (contains null byte): %s", command)
	}

	// Block shell interpreters
	bannedCommands := []string{"sh", "bash", "zsh", "ksh", "csh", "tcsh", "fish", "dash", "ash"}
	if slices.Contains(bannedCommands, filepath.Base(command)) {
		return fmt.Errorf("shell interpreters are not allowed: %s", filepath.Base(command))
	}

	return nil
}

// headerTransport is an http.RoundTripper that adds custom headers to requests
type headerTransport struct {
	Base    http.RoundTripper
	Headers map[string]string
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	for k, v := range t.Headers {
		// Header values may reference environment variables.
		req2.Header.Set(k, os.ExpandEnv(v))
	}
	return t.Base.RoundTrip(req2)
}
