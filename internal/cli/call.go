package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	ucli "github.com/urfave/cli/v3"

	"github.com/vaayne/toolman/internal/tools"
)

// CallCmd routes a tool invocation by name and, for provider tools,
// executes it.
var CallCmd = &ucli.Command{
	Name:      "call",
	Usage:     "Route a tool invocation and execute it on its provider",
	ArgsUsage: "<tool-name> [args-json | -]",
	Description: `Route an invocation the way the chat agent would: builtin names resolve
to their typed parameter shape, namespaced names ({provider}___{tool})
resolve to a tools/call against the booted provider.

Arguments can be provided as:
  - A JSON string argument
  - "-" to read JSON from stdin
  - Omitted for tools with no required parameters

Examples:
  # Call a provider tool
  toolman call weather___get_forecast '{"city": "Paris"}'

  # Validate builtin tool parameters
  toolman call fs_read '{"path": "/etc/hosts"}'

  # Read arguments from stdin
  echo '{"city": "Paris"}' | toolman call weather___get_forecast -`,
	Action: runCall,
}

func runCall(ctx context.Context, cmd *ucli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("accepts between 1 and 2 arg(s), received %d", len(args))
	}
	toolName := args[0]

	rawArgs := json.RawMessage("{}")
	if len(args) == 2 {
		parsed, err := readArgs(args[1])
		if err != nil {
			return err
		}
		rawArgs = parsed
	}

	logger, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	mgr, err := buildManager(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	invocation := tools.ToolUse{
		ID:   fmt.Sprintf("cli_%d", time.Now().UnixNano()),
		Name: toolName,
		Args: rawArgs,
	}

	routed, errResult := mgr.Route(invocation)
	if errResult != nil {
		if cmd.Bool("json") {
			output, err := json.MarshalIndent(errResult, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}
		for _, block := range errResult.Content {
			fmt.Println(block.Text)
		}
		return nil
	}

	switch t := routed.(type) {
	case *tools.RemoteCall:
		result, err := t.Invoke(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}
		printCallToolResult(result)
	default:
		// Builtin tools are executed by the host agent, not by the
		// manager; show the validated parameters instead.
		output, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Printf("builtin tool %s with parameters:\n%s\n", toolName, output)
	}
	return nil
}

// readArgs parses the args argument: a JSON literal, or "-" for stdin.
func readArgs(arg string) (json.RawMessage, error) {
	if arg == "-" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("stdin is a terminal; pipe JSON or use argument instead")
		}
		input, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		var js json.RawMessage
		if err := json.Unmarshal(input, &js); err != nil {
			return nil, fmt.Errorf("invalid JSON from stdin: %v", err)
		}
		return js, nil
	}

	var js json.RawMessage
	if err := json.Unmarshal([]byte(arg), &js); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}
	return js, nil
}
