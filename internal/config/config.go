package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

const (
	// globalConfigRel is the global config location, relative to the home dir.
	globalConfigRel = ".config/toolman/mcp.json"
	// workspaceConfigRel is the workspace config location, relative to cwd.
	workspaceConfigRel = ".toolman/mcp.json"
)

// Config represents the tool provider configuration. The top-level key
// mirrors the mcpServers layout used by other MCP-aware clients so configs
// can be shared between them.
type Config struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// ServerConfig is one MCP server's launch/connection configuration. The
// merger treats it as opaque; the transport factory interprets it.
type ServerConfig struct {
	Transport     string            `json:"transport,omitempty"` // defaults based on command/url presence
	Command       string            `json:"command,omitempty"`
	Args          []string          `json:"args,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	URL           string            `json:"url,omitempty"`
	Enable        *bool             `json:"enable,omitempty"` // pointer to distinguish between false and unset
	Headers       map[string]string `json:"headers,omitempty"`
	Timeout       *int              `json:"timeout,omitempty"`       // request timeout in seconds
	TLSSkipVerify *bool             `json:"tlsSkipVerify,omitempty"` // skip TLS verification (dev only)
}

// IsEnabled returns true if the server should be enabled (default true if not specified)
func (s *ServerConfig) IsEnabled() bool {
	if s.Enable == nil {
		return true
	}
	return *s.Enable
}

// GetTransport returns the transport type, defaulting based on URL/Command presence
func (s *ServerConfig) GetTransport() string {
	if s.Transport != "" {
		return s.Transport
	}
	if s.URL != "" {
		// Default to http for URLs (SSE must be explicitly set)
		return "http"
	}
	return "stdio"
}

// Load reads the global and workspace config files from their default
// locations and merges them. Conflict notices are written to out.
func Load(out io.Writer) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home dir: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to locate working dir: %w", err)
	}
	return LoadPaths(filepath.Join(home, globalConfigRel), filepath.Join(cwd, workspaceConfigRel), out)
}

// LoadPaths merges the config files at globalPath and workspacePath. Either
// file may be absent; an absent file contributes nothing and an entirely
// absent configuration yields an empty, valid Config. A file that exists but
// fails to parse is a fatal error. When both files define the same server the
// workspace definition wins and a conflict notice naming the server is
// written to out.
func LoadPaths(globalPath, workspacePath string, out io.Writer) (*Config, error) {
	globalBuf, globalErr := os.ReadFile(globalPath)
	workspaceBuf, workspaceErr := os.ReadFile(workspacePath)

	switch {
	case globalErr == nil && workspaceErr == nil:
		globalConf, err := parse(globalBuf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse global config %s: %w", globalPath, err)
		}
		workspaceConf, err := parse(workspaceBuf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workspace config %s: %w", workspacePath, err)
		}
		for name, server := range workspaceConf.MCPServers {
			if _, exists := globalConf.MCPServers[name]; exists {
				color.New(color.FgYellow).Fprint(out, "WARNING: ")
				fmt.Fprint(out, "MCP config conflict for ")
				color.New(color.FgGreen).Fprint(out, name)
				fmt.Fprintln(out, ". Using workspace version.")
			}
			globalConf.MCPServers[name] = server
		}
		return globalConf, nil
	case workspaceErr == nil:
		conf, err := parse(workspaceBuf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse workspace config %s: %w", workspacePath, err)
		}
		return conf, nil
	case globalErr == nil:
		conf, err := parse(globalBuf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse global config %s: %w", globalPath, err)
		}
		return conf, nil
	default:
		// No configuration at all is a valid, toolless state.
		return &Config{MCPServers: make(map[string]ServerConfig)}, nil
	}
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]ServerConfig)
	}
	return &cfg, nil
}
