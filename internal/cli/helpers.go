package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	ucli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vaayne/toolman/internal/config"
	"github.com/vaayne/toolman/internal/logging"
	"github.com/vaayne/toolman/internal/manager"
)

// setupLogger builds the logger from the global flags. --verbose wins over
// --log-level.
func setupLogger(cmd *ucli.Command) (*zap.Logger, error) {
	level, err := logging.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
	}
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}
	return logging.Init(logging.Config{
		Level:    level,
		FilePath: cmd.String("log-file"),
	})
}

// loadConfig merges the provider configuration, honoring path overrides.
func loadConfig(cmd *ucli.Command) (*config.Config, error) {
	globalPath := cmd.String("global-config")
	workspacePath := cmd.String("workspace-config")
	if globalPath != "" || workspacePath != "" {
		return config.LoadPaths(globalPath, workspacePath, os.Stdout)
	}
	return config.Load(os.Stdout)
}

// buildManager merges the configuration and boots every provider, with live
// progress on stdout.
func buildManager(ctx context.Context, cmd *ucli.Command, logger *zap.Logger) (*manager.Manager, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return manager.New(ctx, cfg, os.Stdout, logger)
}

// printCallToolResult pretty-prints a CallToolResult
func printCallToolResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Println("Error:")
	}

	for _, content := range result.Content {
		switch c := content.(type) {
		case *mcp.TextContent:
			fmt.Println(c.Text)
		case *mcp.ImageContent:
			fmt.Printf("[Image: %s, %d bytes]\n", c.MIMEType, len(c.Data))
		default:
			// Fallback: try to marshal as JSON
			if data, err := json.MarshalIndent(content, "", "  "); err == nil {
				fmt.Println(string(data))
			} else {
				fmt.Printf("%v\n", content)
			}
		}
	}
}
