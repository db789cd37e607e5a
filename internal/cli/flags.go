package cli

import (
	ucli "github.com/urfave/cli/v3"
)

// GlobalFlags are shared across all subcommands.
func GlobalFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{
			Name:  "global-config",
			Usage: "override the global MCP config path (default ~/.config/toolman/mcp.json)",
		},
		&ucli.StringFlag{
			Name:  "workspace-config",
			Usage: "override the workspace MCP config path (default .toolman/mcp.json)",
		},
		&ucli.BoolFlag{
			Name:  "json",
			Usage: "output as JSON",
		},
		&ucli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "verbose logging",
		},
		&ucli.StringFlag{
			Name:  "log-file",
			Usage: "log file path (empty disables file logging)",
		},
		&ucli.StringFlag{
			Name:  "log-level",
			Usage: "minimum log level (debug, info, warn, error)",
			Value: "info",
		},
	}
}
