package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	ucli "github.com/urfave/cli/v3"
)

// ToolsCmd boots every configured provider and lists the aggregated tools.
var ToolsCmd = &ucli.Command{
	Name:  "tools",
	Usage: "List all available tools (builtin and provider-declared)",
	Description: `Merge the global and workspace configuration, bring every configured
provider online, and print the full namespaced tool list.

Examples:
  # List tools as a table
  toolman tools

  # List tools as JSON
  toolman tools --json`,
	Action: runTools,
}

func runTools(ctx context.Context, cmd *ucli.Command) error {
	logger, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	mgr, err := buildManager(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	specs, err := mgr.LoadTools(ctx, os.Stdout)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		output, err := json.MarshalIndent(specs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		desc := specs[name].Description
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		fmt.Printf("%-40s %s\n", name, desc)
	}
	fmt.Printf("\n%d tools available\n", len(names))
	return nil
}
