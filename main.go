package main

import (
	"context"
	"fmt"
	"os"

	ucli "github.com/urfave/cli/v3"

	"github.com/vaayne/toolman/internal/cli"
)

// Version information - injected at build time via ldflags
var (
	version = "dev"
)

func main() {
	cmd := &ucli.Command{
		Name:    "toolman",
		Usage:   "Tool provider manager for MCP-backed chat agents",
		Version: version,
		Description: `toolman merges tool provider configuration, boots every configured MCP
server concurrently with live progress, aggregates their declared tools
under namespaced identifiers, and routes invocations to the right
builtin or provider tool.`,
		Flags: cli.GlobalFlags(),
		Commands: []*ucli.Command{
			cli.ToolsCmd,
			cli.ServersCmd,
			cli.CallCmd,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
