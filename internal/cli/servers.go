package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	ucli "github.com/urfave/cli/v3"
)

// ServersCmd boots every configured provider and lists the ones that came
// online, under their post-collision-resolution names.
var ServersCmd = &ucli.Command{
	Name:   "servers",
	Usage:  "List the providers that booted successfully",
	Action: runServers,
}

func runServers(ctx context.Context, cmd *ucli.Command) error {
	logger, err := setupLogger(cmd)
	if err != nil {
		return err
	}

	mgr, err := buildManager(ctx, cmd, logger)
	if err != nil {
		return err
	}
	defer mgr.Close()

	names := mgr.ClientNames()
	sort.Strings(names)

	if cmd.Bool("json") {
		output, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("\n%d servers online\n", len(names))
	return nil
}
