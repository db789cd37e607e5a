package tools

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed tool_index.json
var toolIndexJSON []byte

// ToolSpec declares a callable tool: its name, description, and input
// schema. InputSchema is a plain JSON schema object; its contents are
// interpreted by the model, not by the manager.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// BuiltinToolIndex parses the embedded catalog of builtin tool specs. A
// fresh map is returned on each call so callers may mutate it freely.
func BuiltinToolIndex() (map[string]ToolSpec, error) {
	var specs map[string]ToolSpec
	if err := json.Unmarshal(toolIndexJSON, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse builtin tool index: %w", err)
	}
	return specs, nil
}
